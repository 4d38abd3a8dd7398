package converter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
)

// Record is one space-time state of a vehicle: one stop visit of one trip,
// joined with its route, direction and stop attributes.
type Record struct {
	TripID         string
	RouteID        string
	RouteShortName string
	RouteType      int

	// DirectedRouteID is route_id + "." + direction, where GTFS
	// direction_id 0/1 is remapped to 2/1.
	DirectedRouteID string

	StopID   string
	StopName string
	StopLat  float64
	StopLon  float64

	StopSequence int
	ArrivalMin   int
	DepartureMin int

	// TerminalFlag is 1 on the first and last stop of the trip.
	TerminalFlag int

	// DirectedServiceID identifies the directed route together with its
	// stop pattern label; trips of the same directed route that serve
	// different stop sequences get different service ids.
	DirectedServiceID string

	// DirectedServiceStopID is unique per (service pattern, stop).
	DirectedServiceStopID string

	AgencyName string
}

// Timetable is the directed trip/route/stop-time join for one feed,
// restricted to trips whose first arrival falls inside the analysis
// window.
type Timetable struct {
	AgencyName string
	Records    []Record

	// ServiceTrips maps directed_service_id to its trip ids in feed
	// order; the first entry is the representative trip used for
	// service-link generation, the length is the service frequency.
	ServiceTrips map[string][]string

	// ServiceOrder lists directed_service_ids in first-encounter order.
	ServiceOrder []string

	tripRecords map[string][]int // trip_id -> indexes into Records
}

// TripRecords returns the records of one trip ordered by stop_sequence.
func (t *Timetable) TripRecords(tripID string) []Record {
	idxs := t.tripRecords[tripID]
	out := make([]Record, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, t.Records[i])
	}
	return out
}

// Frequency returns the number of trips a directed service runs in the
// window.
func (t *Timetable) Frequency(directedServiceID string) int {
	return len(t.ServiceTrips[directedServiceID])
}

// BuildTimetable joins trips, routes, stop_times and stops of one feed and
// keeps the trips whose earliest arrival lies inside [startMin, endMin].
// Terminal flags, stop-pattern labels and the directed route/service ids
// are assigned here; everything downstream (nodes, links, analysis) works
// off these records.
func BuildTimetable(f *gtfs.Feed, startMin, endMin int, warns *WarningAggregator) *Timetable {
	tt := &Timetable{
		AgencyName:   f.AgencyName(),
		ServiceTrips: make(map[string][]string),
		tripRecords:  make(map[string][]int),
	}

	// patternLabels assigns sequential labels "1", "2", ... to distinct
	// ordered stop sequences within one directed route.
	patternLabels := make(map[string]map[string]string)

	for _, trip := range f.Trips {
		stopTimes := f.StopTimesForTrip(trip.TripID)
		if len(stopTimes) == 0 {
			warns.Add(WarningTripNoStopTimes, trip.TripID)
			continue
		}

		minArr := stopTimes[0].ArrivalMin
		for _, st := range stopTimes[1:] {
			if st.ArrivalMin < minArr {
				minArr = st.ArrivalMin
			}
		}
		if minArr < startMin || minArr > endMin {
			continue
		}

		route := f.RouteByID(trip.RouteID)
		if route == nil {
			warns.Add(WarningTripUnknownRoute, trip.TripID)
			continue
		}

		directedRouteID := route.RouteID + "." + remapDirection(trip.DirectionID)

		stopIDs := make([]string, len(stopTimes))
		for i, st := range stopTimes {
			stopIDs[i] = st.StopID
		}
		label := patternLabel(patternLabels, directedRouteID, strings.Join(stopIDs, "|"))
		serviceID := directedRouteID + ":" + label

		nonMonotonic := false
		first := len(tt.Records)
		for i, st := range stopTimes {
			stop := f.StopByID(st.StopID)
			if stop == nil {
				warns.Add(WarningStopNotFound, trip.TripID+"/"+st.StopID)
				continue
			}
			if stop.StopLat == 0 && stop.StopLon == 0 {
				warns.Add(WarningStopNoCoord, st.StopID)
			}
			if i > 0 && st.ArrivalMin < stopTimes[i-1].ArrivalMin && !nonMonotonic {
				warns.Add(WarningNonMonotonicTimes, trip.TripID)
				nonMonotonic = true
			}

			terminal := 0
			if i == 0 || i == len(stopTimes)-1 {
				terminal = 1
			}

			tt.tripRecords[trip.TripID] = append(tt.tripRecords[trip.TripID], len(tt.Records))
			tt.Records = append(tt.Records, Record{
				TripID:                trip.TripID,
				RouteID:               route.RouteID,
				RouteShortName:        route.RouteShortName,
				RouteType:             route.RouteType,
				DirectedRouteID:       directedRouteID,
				StopID:                st.StopID,
				StopName:              stop.StopName,
				StopLat:               stop.StopLat,
				StopLon:               stop.StopLon,
				StopSequence:          st.StopSequence,
				ArrivalMin:            st.ArrivalMin,
				DepartureMin:          st.DepartureMin,
				TerminalFlag:          terminal,
				DirectedServiceID:     serviceID,
				DirectedServiceStopID: directedRouteID + "." + st.StopID + ":" + label,
				AgencyName:            tt.AgencyName,
			})
		}
		if len(tt.Records) == first {
			// every stop of the trip was unresolvable
			continue
		}

		if _, seen := tt.ServiceTrips[serviceID]; !seen {
			tt.ServiceOrder = append(tt.ServiceOrder, serviceID)
		}
		tt.ServiceTrips[serviceID] = append(tt.ServiceTrips[serviceID], trip.TripID)
	}

	return tt
}

// remapDirection converts GTFS direction_id 0/1 into the 2/1 scheme the
// node and link tables use.
func remapDirection(directionID string) string {
	d, err := strconv.Atoi(directionID)
	if err != nil || d < 0 || d > 1 {
		d = 0
	}
	return strconv.Itoa(2 - d)
}

func patternLabel(labels map[string]map[string]string, directedRouteID, patternKey string) string {
	byPattern := labels[directedRouteID]
	if byPattern == nil {
		byPattern = make(map[string]string)
		labels[directedRouteID] = byPattern
	}
	if label, ok := byPattern[patternKey]; ok {
		return label
	}
	label := strconv.Itoa(len(byPattern) + 1)
	byPattern[patternKey] = label
	return label
}
