package unit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/tests/helpers"
)

func TestLoadFromDir(t *testing.T) {
	feed := helpers.LoadFixtureFeed(t)

	if feed.AgencyName() != "Sofia Urban Mobility" {
		t.Errorf("unexpected agency name %q", feed.AgencyName())
	}
	if len(feed.Stops) != 6 {
		t.Errorf("expected 6 stops, got %d", len(feed.Stops))
	}
	if len(feed.Routes) != 2 {
		t.Errorf("expected 2 routes, got %d", len(feed.Routes))
	}
	if len(feed.Trips) != 6 {
		t.Errorf("expected 6 trips, got %d", len(feed.Trips))
	}
}

func TestLoadFromZip(t *testing.T) {
	feed, err := gtfs.Load(helpers.WriteFeedZip(t))
	if err != nil {
		t.Fatalf("load zip: %v", err)
	}
	if len(feed.Stops) != 6 || len(feed.Trips) != 6 {
		t.Errorf("zip load differs from dir load: %d stops, %d trips", len(feed.Stops), len(feed.Trips))
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"agency.txt", "stops.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(helpers.FixtureFiles[name]), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := gtfs.Load(dir)
	if err == nil {
		t.Fatal("expected error for incomplete feed")
	}
	for _, missing := range []string{"routes.txt", "trips.txt", "stop_times.txt"} {
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error should name %s, got: %v", missing, err)
		}
	}
}

func TestStopTimesSortedBySequence(t *testing.T) {
	feed := helpers.LoadFixtureFeed(t)

	sts := feed.StopTimesForTrip("T1")
	if len(sts) != 4 {
		t.Fatalf("expected 4 stop_times for T1, got %d", len(sts))
	}
	for i := 1; i < len(sts); i++ {
		if sts[i].StopSequence <= sts[i-1].StopSequence {
			t.Errorf("stop_times not sorted at index %d", i)
		}
	}
	if sts[0].StopID != "S1" || sts[3].StopID != "S4" {
		t.Errorf("unexpected stop order: %s ... %s", sts[0].StopID, sts[3].StopID)
	}
}

func TestClockParsedToMinutes(t *testing.T) {
	feed := helpers.LoadFixtureFeed(t)

	sts := feed.StopTimesForTrip("T1")
	if sts[0].ArrivalMin != 420 {
		t.Errorf("expected 07:00:00 parsed to 420, got %d", sts[0].ArrivalMin)
	}
	if sts[3].ArrivalMin != 435 {
		t.Errorf("expected 07:15:00 parsed to 435, got %d", sts[3].ArrivalMin)
	}
}

func TestRouteIDQuoteHealing(t *testing.T) {
	dir := t.TempDir()
	for name, content := range helpers.FixtureFiles {
		if name == "routes.txt" {
			// quoted in routes.txt, bare in trips.txt
			content = "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
				"\"\"\"R1\"\"\",A1,10,Square - Park,3\n" +
				"\"\"\"R2\"\"\",A1,M1,Center - North,1\n"
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	feed, err := gtfs.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	route := feed.RouteByID("R1")
	if route == nil {
		t.Fatal("route R1 not found after quote healing")
	}
	if route.RouteType != 3 {
		t.Errorf("expected route_type 3, got %d", route.RouteType)
	}
}

func TestBOMStrippedFromHeader(t *testing.T) {
	dir := t.TempDir()
	for name, content := range helpers.FixtureFiles {
		if name == "stops.txt" {
			content = "\uFEFF" + content
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	feed, err := gtfs.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if feed.StopByID("S1") == nil {
		t.Error("stop S1 not found; BOM likely corrupted the stop_id column")
	}
}

func TestInvalidStopTimesDropped(t *testing.T) {
	dir := t.TempDir()
	for name, content := range helpers.FixtureFiles {
		if name == "stop_times.txt" {
			content += "T1,,,S2,9\n"
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	feed, err := gtfs.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(feed.StopTimesForTrip("T1")); got != 4 {
		t.Errorf("blank-time row should be dropped, T1 has %d stop_times", got)
	}
}
