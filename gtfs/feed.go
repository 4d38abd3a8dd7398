package gtfs

import (
	"sort"
	"strings"
)

// Feed holds the parsed tables of one GTFS static feed plus lookup
// indexes. Parse a feed once and keep it in memory; all lookups are map
// reads.
type Feed struct {
	Name   string
	Agency Agency

	Stops     []Stop
	Routes    []Route
	Trips     []Trip
	StopTimes []StopTime
	Shapes    map[string][]ShapePoint

	stopByID        map[string]*Stop
	routeByID       map[string]*Route
	tripByID        map[string]*Trip
	stopTimesByTrip map[string][]StopTime
}

// buildIndexes populates the lookup maps and sorts each trip's stop_times
// by stop_sequence. Called once after loading.
func (f *Feed) buildIndexes() {
	f.stopByID = make(map[string]*Stop, len(f.Stops))
	for i := range f.Stops {
		f.stopByID[f.Stops[i].StopID] = &f.Stops[i]
	}
	f.routeByID = make(map[string]*Route, len(f.Routes))
	for i := range f.Routes {
		f.routeByID[f.Routes[i].RouteID] = &f.Routes[i]
	}
	f.tripByID = make(map[string]*Trip, len(f.Trips))
	for i := range f.Trips {
		f.tripByID[f.Trips[i].TripID] = &f.Trips[i]
	}
	f.stopTimesByTrip = make(map[string][]StopTime)
	for _, st := range f.StopTimes {
		f.stopTimesByTrip[st.TripID] = append(f.stopTimesByTrip[st.TripID], st)
	}
	for tripID := range f.stopTimesByTrip {
		sts := f.stopTimesByTrip[tripID]
		sort.Slice(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
	}
}

// healRouteIDQuotes strips surrounding double quotes from route_id values
// when routes.txt and trips.txt disagree about quoting. Some feeds (e.g.
// Fairfax CUE) publish `"green2"` in one file and `green2` in the other,
// which would otherwise break the trip-route join.
func (f *Feed) healRouteIDQuotes() {
	if len(f.Routes) == 0 || len(f.Trips) == 0 {
		return
	}
	routeQuoted := strings.HasPrefix(f.Routes[0].RouteID, `"`)
	tripQuoted := strings.HasPrefix(f.Trips[0].RouteID, `"`)
	if routeQuoted == tripQuoted {
		return
	}
	if routeQuoted {
		for i := range f.Routes {
			f.Routes[i].RouteID = strings.Trim(f.Routes[i].RouteID, `"`)
		}
	} else {
		for i := range f.Trips {
			f.Trips[i].RouteID = strings.Trim(f.Trips[i].RouteID, `"`)
		}
	}
}

// AgencyName returns the agency_name of the feed's first agency row.
func (f *Feed) AgencyName() string { return f.Agency.AgencyName }

// StopByID returns the stop with the given id, or nil.
func (f *Feed) StopByID(stopID string) *Stop { return f.stopByID[stopID] }

// RouteByID returns the route with the given id, or nil.
func (f *Feed) RouteByID(routeID string) *Route { return f.routeByID[routeID] }

// TripByID returns the trip with the given id, or nil.
func (f *Feed) TripByID(tripID string) *Trip { return f.tripByID[tripID] }

// StopTimesForTrip returns the trip's stop_times ordered by stop_sequence.
func (f *Feed) StopTimesForTrip(tripID string) []StopTime {
	return f.stopTimesByTrip[tripID]
}
