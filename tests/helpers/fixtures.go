package helpers

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/config"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
)

// FixtureFiles is a small two-route feed: bus route R1 with two stop
// patterns and both directions, metro route R2 passing near the bus stop
// S2 so transfer links form. Trip T4 runs outside the 07:00-08:00 window.
var FixtureFiles = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"A1,Sofia Urban Mobility,https://example.com,Europe/Sofia\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,Square West,42.6900,23.3200\n" +
		"S2,Square Center,42.6910,23.3210\n" +
		"S3,Square East,42.6920,23.3220\n" +
		"S4,Park,42.6930,23.3230\n" +
		"M1,Metro Center,42.6912,23.3212\n" +
		"M2,Metro North,42.6990,23.3290\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
		"R1,A1,10,Square - Park,3\n" +
		"R2,A1,M1,Center - North,1\n",
	"trips.txt": "route_id,service_id,trip_id,direction_id\n" +
		"R1,WD,T1,0\n" +
		"R1,WD,T2,0\n" +
		"R1,WD,T3,0\n" +
		"R1,WD,T4,0\n" +
		"R1,WD,T5,1\n" +
		"R2,WD,MT1,0\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,07:00:00,07:00:00,S1,1\n" +
		"T1,07:05:00,07:05:00,S2,2\n" +
		"T1,07:10:00,07:10:00,S3,3\n" +
		"T1,07:15:00,07:15:00,S4,4\n" +
		"T2,07:30:00,07:30:00,S1,1\n" +
		"T2,07:35:00,07:35:00,S2,2\n" +
		"T2,07:40:00,07:40:00,S3,3\n" +
		"T2,07:45:00,07:45:00,S4,4\n" +
		"T3,07:50:00,07:50:00,S1,1\n" +
		"T3,07:55:00,07:55:00,S2,2\n" +
		"T3,07:59:00,07:59:00,S3,3\n" +
		"T4,09:00:00,09:00:00,S1,1\n" +
		"T4,09:05:00,09:05:00,S2,2\n" +
		"T4,09:10:00,09:10:00,S3,3\n" +
		"T5,07:10:00,07:10:00,S4,1\n" +
		"T5,07:15:00,07:15:00,S3,2\n" +
		"T5,07:20:00,07:20:00,S2,3\n" +
		"T5,07:25:00,07:25:00,S1,4\n" +
		"MT1,07:05:00,07:05:00,M1,1\n" +
		"MT1,07:12:00,07:12:00,M2,2\n",
}

// WriteFeedDir writes the fixture feed as a directory of .txt files.
func WriteFeedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range FixtureFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}

// WriteFeedZip writes the fixture feed as a .zip archive.
func WriteFeedZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range FixtureFiles {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close fixture zip: %v", err)
	}
	return path
}

// LoadFixtureFeed loads the fixture feed from a directory.
func LoadFixtureFeed(t *testing.T) *gtfs.Feed {
	t.Helper()
	f, err := gtfs.Load(WriteFeedDir(t))
	if err != nil {
		t.Fatalf("load fixture feed: %v", err)
	}
	return f
}

// TestConfig returns a conversion config with the published defaults and
// the 07:00-08:00 analysis window.
func TestConfig() config.AppConfig {
	return config.AppConfig{
		Conversion: config.ConversionConfig{
			TimeWindow: "0700_0800",
			Transfer: config.TransferConfig{
				SearchRadiusDeg: config.DefaultSearchRadiusDeg,
				MaxTargets:      config.DefaultMaxTargets,
				MinLengthM:      config.DefaultMinLengthM,
				MaxLengthM:      config.DefaultMaxLengthM,
			},
			Access: config.AccessConfig{
				MaxDistanceKM: config.DefaultAccessKM,
			},
		},
	}
}

// BuildFixtureNetwork converts the fixture feed into a finalized network.
func BuildFixtureNetwork(t *testing.T) *converter.Converter {
	t.Helper()
	conv, err := converter.NewConverter(TestConfig())
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	if _, err := conv.AddFeed(LoadFixtureFeed(t)); err != nil {
		t.Fatalf("add feed: %v", err)
	}
	if err := conv.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return conv
}
