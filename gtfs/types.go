package gtfs

// Agency is one row of agency.txt.
type Agency struct {
	AgencyID       string
	AgencyName     string
	AgencyURL      string
	AgencyTimezone string
}

// Stop is one row of stops.txt.
type Stop struct {
	StopID   string
	StopName string
	StopLat  float64
	StopLon  float64
}

// Route is one row of routes.txt.
type Route struct {
	RouteID        string
	RouteShortName string
	RouteLongName  string
	RouteType      int
}

// Trip is one row of trips.txt. DirectionID keeps the raw GTFS value
// ("0" or "1"); rows without a direction_id column default to "0".
type Trip struct {
	TripID      string
	RouteID     string
	ServiceID   string
	DirectionID string
	ShapeID     string
}

// StopTime is one row of stop_times.txt. Rows with a blank arrival or
// departure time are dropped during loading, so both minute fields are
// always populated. Minutes count from midnight of the service day and
// may exceed 1440 for past-midnight service.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence int
	ArrivalMin   int
	DepartureMin int
}

// ShapePoint is one row of shapes.txt, ordered by shape_pt_sequence.
type ShapePoint struct {
	Lon float64
	Lat float64
	Seq int
}
