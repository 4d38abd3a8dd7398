package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// requiredFiles must all be present in a feed; shapes.txt is optional.
var requiredFiles = []string{"agency.txt", "stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// Load reads a GTFS feed from either a directory of .txt files or a .zip
// archive, picking by what the path points at.
func Load(path string) (*Feed, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("gtfs feed path %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadFromDir(path)
	}
	return LoadFromZip(path)
}

// LoadFromDir reads a GTFS feed from a directory of .txt files.
func LoadFromDir(dir string) (*Feed, error) {
	var missing []string
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("gtfs feed %s is missing required files: %s", dir, strings.Join(missing, ", "))
	}

	open := func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}
	return load(dir, open, exists)
}

// LoadFromZip reads a GTFS feed from a .zip archive.
func LoadFromZip(path string) (*Feed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open gtfs zip %s: %w", path, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File)
	for _, f := range zr.File {
		files[strings.ToLower(filepath.Base(f.Name))] = f
	}
	var missing []string
	for _, name := range requiredFiles {
		if _, ok := files[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("gtfs feed %s is missing required files: %s", path, strings.Join(missing, ", "))
	}

	open := func(name string) (io.ReadCloser, error) {
		return files[name].Open()
	}
	exists := func(name string) bool {
		_, ok := files[name]
		return ok
	}
	return load(path, open, exists)
}

func load(source string, open func(string) (io.ReadCloser, error), exists func(string) bool) (*Feed, error) {
	feed := &Feed{
		Name:   source,
		Shapes: make(map[string][]ShapePoint),
	}

	if err := consume(open, "agency.txt", func(rec []string, idx map[string]int) {
		if feed.Agency.AgencyName != "" {
			return
		}
		feed.Agency = Agency{
			AgencyID:       getField(rec, idx, "agency_id"),
			AgencyName:     getField(rec, idx, "agency_name"),
			AgencyURL:      getField(rec, idx, "agency_url"),
			AgencyTimezone: getField(rec, idx, "agency_timezone"),
		}
	}); err != nil {
		return nil, err
	}
	log.Printf("reading GTFS %s: agency %q", source, feed.Agency.AgencyName)

	if err := consume(open, "stops.txt", func(rec []string, idx map[string]int) {
		lat, _ := strconv.ParseFloat(getField(rec, idx, "stop_lat"), 64)
		lon, _ := strconv.ParseFloat(getField(rec, idx, "stop_lon"), 64)
		feed.Stops = append(feed.Stops, Stop{
			StopID:   getField(rec, idx, "stop_id"),
			StopName: getField(rec, idx, "stop_name"),
			StopLat:  lat,
			StopLon:  lon,
		})
	}); err != nil {
		return nil, err
	}

	if err := consume(open, "routes.txt", func(rec []string, idx map[string]int) {
		routeType, _ := strconv.Atoi(getField(rec, idx, "route_type"))
		feed.Routes = append(feed.Routes, Route{
			RouteID:        getField(rec, idx, "route_id"),
			RouteShortName: getField(rec, idx, "route_short_name"),
			RouteLongName:  getField(rec, idx, "route_long_name"),
			RouteType:      routeType,
		})
	}); err != nil {
		return nil, err
	}

	if err := consume(open, "trips.txt", func(rec []string, idx map[string]int) {
		dir := getField(rec, idx, "direction_id")
		if dir == "" {
			dir = "0"
		}
		feed.Trips = append(feed.Trips, Trip{
			TripID:      getField(rec, idx, "trip_id"),
			RouteID:     getField(rec, idx, "route_id"),
			ServiceID:   getField(rec, idx, "service_id"),
			DirectionID: dir,
			ShapeID:     getField(rec, idx, "shape_id"),
		})
	}); err != nil {
		return nil, err
	}

	dropped := 0
	if err := consume(open, "stop_times.txt", func(rec []string, idx map[string]int) {
		arr := getField(rec, idx, "arrival_time")
		dep := getField(rec, idx, "departure_time")
		if arr == "" || dep == "" {
			dropped++
			return
		}
		arrMin, err := utils.ClockToMinutes(arr)
		if err != nil {
			dropped++
			return
		}
		depMin, err := utils.ClockToMinutes(dep)
		if err != nil {
			dropped++
			return
		}
		seq, _ := strconv.Atoi(getField(rec, idx, "stop_sequence"))
		feed.StopTimes = append(feed.StopTimes, StopTime{
			TripID:       getField(rec, idx, "trip_id"),
			StopID:       getField(rec, idx, "stop_id"),
			StopSequence: seq,
			ArrivalMin:   arrMin,
			DepartureMin: depMin,
		})
	}); err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Printf("reading GTFS %s: dropped %d stop_time rows without usable arrival/departure times", source, dropped)
	}

	if exists("shapes.txt") {
		if err := consume(open, "shapes.txt", func(rec []string, idx map[string]int) {
			shapeID := getField(rec, idx, "shape_id")
			lat, _ := strconv.ParseFloat(getField(rec, idx, "shape_pt_lat"), 64)
			lon, _ := strconv.ParseFloat(getField(rec, idx, "shape_pt_lon"), 64)
			seq, _ := strconv.Atoi(getField(rec, idx, "shape_pt_sequence"))
			feed.Shapes[shapeID] = append(feed.Shapes[shapeID], ShapePoint{Lon: lon, Lat: lat, Seq: seq})
		}); err != nil {
			return nil, err
		}
		for shapeID := range feed.Shapes {
			pts := feed.Shapes[shapeID]
			sort.Slice(pts, func(i, j int) bool { return pts[i].Seq < pts[j].Seq })
		}
	}

	feed.healRouteIDQuotes()
	feed.buildIndexes()

	log.Printf("GTFS %s parsed: %d stops, %d routes, %d trips, %d stop_times, %d shapes",
		source, len(feed.Stops), len(feed.Routes), len(feed.Trips), len(feed.StopTimes), len(feed.Shapes))
	return feed, nil
}

// consume streams one CSV file row by row into fn.
func consume(open func(string) (io.ReadCloser, error), name string, fn func(rec []string, idx map[string]int)) error {
	rc, err := open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", name, err)
	}
	idx := makeIndex(header)

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		fn(rec, idx)
	}
	return nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			// utf-8-sig feeds carry a BOM on the first column name
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		idx[h] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
