package analysis

import (
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// FrequencyRow summarizes one directed service over the analysis window.
type FrequencyRow struct {
	DirectedServiceID string
	AgencyName        string
	RouteID           string
	RouteShortName    string
	Direction         string
	TripCount         int
	MeanHeadwayMin    float64
	FirstDeparture    string
	LastDeparture     string
	StopCount         int
}

// ServiceFrequencies reports trip count, mean headway and the first and
// last departures of every directed service, in service order.
func ServiceFrequencies(tt *converter.Timetable, windowStart, windowEnd int) []FrequencyRow {
	rows := make([]FrequencyRow, 0, len(tt.ServiceOrder))
	for _, serviceID := range tt.ServiceOrder {
		trips := tt.ServiceTrips[serviceID]

		firstDep := -1
		lastDep := -1
		for _, tripID := range trips {
			recs := tt.TripRecords(tripID)
			if len(recs) == 0 {
				continue
			}
			dep := recs[0].DepartureMin
			if firstDep < 0 || dep < firstDep {
				firstDep = dep
			}
			if dep > lastDep {
				lastDep = dep
			}
		}
		if firstDep < 0 {
			continue
		}

		rep := tt.TripRecords(trips[0])
		headway := float64(windowEnd-windowStart) / float64(len(trips))

		rows = append(rows, FrequencyRow{
			DirectedServiceID: serviceID,
			AgencyName:        tt.AgencyName,
			RouteID:           rep[0].RouteID,
			RouteShortName:    rep[0].RouteShortName,
			Direction:         directionOf(rep[0].DirectedRouteID),
			TripCount:         len(trips),
			MeanHeadwayMin:    headway,
			FirstDeparture:    utils.MinutesToClock(firstDep),
			LastDeparture:     utils.MinutesToClock(lastDep),
			StopCount:         len(rep),
		})
	}
	return rows
}

// directionOf extracts the trailing direction digit of a directed route id.
func directionOf(directedRouteID string) string {
	if i := strings.LastIndex(directedRouteID, "."); i >= 0 {
		return directedRouteID[i+1:]
	}
	return ""
}
