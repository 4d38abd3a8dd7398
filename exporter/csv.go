package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/analysis"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

// ValidateFilename returns a path that does not collide with an existing
// file, appending _1, _2, ... before the extension until one is free.
func ValidateFilename(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := stem + "_" + strconv.Itoa(i) + ext
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteNodesCSV writes node.csv into dir, never overwriting an existing
// file.
func WriteNodesCSV(dir string, nodes []gmns.Node) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "node.csv"))
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, n.CSVRecord())
	}
	return path, writeCSV(path, gmns.NodeHeader, rows)
}

// WriteLinksCSV writes link.csv into dir, never overwriting an existing
// file.
func WriteLinksCSV(dir string, links []gmns.Link) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "link.csv"))
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, l.CSVRecord())
	}
	return path, writeCSV(path, gmns.LinkHeader, rows)
}

// WriteFrequencyCSV writes the service frequency report.
func WriteFrequencyCSV(dir string, rows []analysis.FrequencyRow) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "service_frequency.csv"))
	header := []string{
		"directed_service_id", "agency_name", "route_id", "route_short_name",
		"direction", "trip_count", "mean_headway_min", "first_departure",
		"last_departure", "stop_count",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.DirectedServiceID, r.AgencyName, r.RouteID, r.RouteShortName,
			r.Direction, strconv.Itoa(r.TripCount), gmns.Ftoa(r.MeanHeadwayMin),
			r.FirstDeparture, r.LastDeparture, strconv.Itoa(r.StopCount),
		})
	}
	return path, writeCSV(path, header, out)
}

// WriteSegmentSpeedCSV writes the per-link scheduled speed report.
func WriteSegmentSpeedCSV(dir string, rows []analysis.SegmentSpeedRow) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "segment_speed.csv"))
	header := []string{
		"link_id", "directed_service_id", "agency_name", "from_node_id",
		"to_node_id", "length_m", "travel_time_min", "speed_kph",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.Itoa(r.LinkID), r.DirectedServiceID, r.AgencyName,
			strconv.Itoa(r.FromNodeID), strconv.Itoa(r.ToNodeID),
			gmns.Ftoa(r.LengthM), gmns.Ftoa(r.TravelTimeMin), gmns.Ftoa(r.SpeedKPH),
		})
	}
	return path, writeCSV(path, header, out)
}

// WriteRouteSpeedCSV writes the per-route speed summary.
func WriteRouteSpeedCSV(dir string, rows []analysis.RouteSpeedRow) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "route_speed.csv"))
	header := []string{
		"directed_route_id", "agency_name", "segment_count",
		"min_speed_kph", "mean_speed_kph", "max_speed_kph",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.DirectedRouteID, r.AgencyName, strconv.Itoa(r.SegmentCount),
			gmns.Ftoa(r.MinSpeedKPH), gmns.Ftoa(r.MeanSpeedKPH), gmns.Ftoa(r.MaxSpeedKPH),
		})
	}
	return path, writeCSV(path, header, out)
}

// WriteTrajectoryCSV writes the scheduled trip trajectories.
func WriteTrajectoryCSV(dir string, points []analysis.TrajectoryPoint) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "trip_trajectory.csv"))
	header := []string{
		"trip_id", "directed_service_id", "agency_name", "stop_sequence",
		"stop_id", "arrival_min", "cumulative_km",
	}
	out := make([][]string, 0, len(points))
	for _, p := range points {
		out = append(out, []string{
			p.TripID, p.DirectedServiceID, p.AgencyName,
			strconv.Itoa(p.StopSequence), p.StopID,
			strconv.Itoa(p.ArrivalMin), gmns.Ftoa(p.CumulativeKM),
		})
	}
	return path, writeCSV(path, header, out)
}

// WriteAccessibilityCSV writes the per-station accessibility report.
func WriteAccessibilityCSV(dir string, rows []analysis.AccessibilityRow) (string, error) {
	path := ValidateFilename(filepath.Join(dir, "stop_accessibility.csv"))
	header := []string{
		"node_id", "stop_id", "agency_name", "service_count", "reachable_stops",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.Itoa(r.NodeID), r.StopID, r.AgencyName,
			strconv.Itoa(r.ServiceCount), strconv.Itoa(r.ReachableStops),
		})
	}
	return path, writeCSV(path, header, out)
}
