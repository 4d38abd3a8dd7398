package unit

import (
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/tests/helpers"
)

func buildFixtureTimetable(t *testing.T) *converter.Timetable {
	t.Helper()
	feed := helpers.LoadFixtureFeed(t)
	return converter.BuildTimetable(feed, 420, 480, converter.NewWarningAggregator())
}

func TestTimetableWindowFilter(t *testing.T) {
	tt := buildFixtureTimetable(t)

	for _, rec := range tt.Records {
		if rec.TripID == "T4" {
			t.Fatal("trip T4 starts at 09:00 and must be filtered out")
		}
	}
	// T1 (4) + T2 (4) + T3 (3) + T5 (4) + MT1 (2)
	if len(tt.Records) != 17 {
		t.Errorf("expected 17 records, got %d", len(tt.Records))
	}
}

func TestTimetableDirectionRemap(t *testing.T) {
	tt := buildFixtureTimetable(t)

	seen := map[string]string{}
	for _, rec := range tt.Records {
		seen[rec.TripID] = rec.DirectedRouteID
	}
	if seen["T1"] != "R1.2" {
		t.Errorf("direction_id 0 should map to R1.2, got %q", seen["T1"])
	}
	if seen["T5"] != "R1.1" {
		t.Errorf("direction_id 1 should map to R1.1, got %q", seen["T5"])
	}
	if seen["MT1"] != "R2.2" {
		t.Errorf("metro trip should map to R2.2, got %q", seen["MT1"])
	}
}

func TestTimetablePatternLabels(t *testing.T) {
	tt := buildFixtureTimetable(t)

	service := map[string]string{}
	for _, rec := range tt.Records {
		service[rec.TripID] = rec.DirectedServiceID
	}

	if service["T1"] != "R1.2:1" {
		t.Errorf("first pattern should be labeled 1, got %q", service["T1"])
	}
	if service["T2"] != "R1.2:1" {
		t.Errorf("same stop pattern should share a label, got %q", service["T2"])
	}
	if service["T3"] != "R1.2:2" {
		t.Errorf("shorter pattern should get label 2, got %q", service["T3"])
	}
	if service["T5"] != "R1.1:1" {
		t.Errorf("opposite direction starts its own labeling, got %q", service["T5"])
	}

	if got := tt.Frequency("R1.2:1"); got != 2 {
		t.Errorf("R1.2:1 should run 2 trips in the window, got %d", got)
	}
	if got := tt.Frequency("R1.2:2"); got != 1 {
		t.Errorf("R1.2:2 should run 1 trip in the window, got %d", got)
	}
}

func TestTimetableTerminalFlags(t *testing.T) {
	tt := buildFixtureTimetable(t)

	recs := tt.TripRecords("T1")
	if len(recs) != 4 {
		t.Fatalf("expected 4 records for T1, got %d", len(recs))
	}
	want := []int{1, 0, 0, 1}
	for i, rec := range recs {
		if rec.TerminalFlag != want[i] {
			t.Errorf("record %d: expected terminal_flag %d, got %d", i, want[i], rec.TerminalFlag)
		}
	}
}

func TestTimetableServiceStopIDs(t *testing.T) {
	tt := buildFixtureTimetable(t)

	recs := tt.TripRecords("T1")
	if recs[0].DirectedServiceStopID != "R1.2.S1:1" {
		t.Errorf("unexpected directed service stop id %q", recs[0].DirectedServiceStopID)
	}
	if recs[3].DirectedServiceStopID != "R1.2.S4:1" {
		t.Errorf("unexpected directed service stop id %q", recs[3].DirectedServiceStopID)
	}
}

func TestTimetableWarnings(t *testing.T) {
	feed := helpers.LoadFixtureFeed(t)
	warns := converter.NewWarningAggregator()

	// a window that excludes everything produces no records and no warnings
	tt := converter.BuildTimetable(feed, 0, 60, warns)
	if len(tt.Records) != 0 {
		t.Errorf("expected empty timetable, got %d records", len(tt.Records))
	}
	if warns.Count(converter.WarningTripNoStopTimes) != 0 {
		t.Error("fixture trips all have stop_times")
	}
}
