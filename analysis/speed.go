package analysis

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

// SegmentSpeedRow is the scheduled speed over one service link.
type SegmentSpeedRow struct {
	LinkID            int
	DirectedServiceID string
	AgencyName        string
	FromNodeID        int
	ToNodeID          int
	LengthM           float64
	TravelTimeMin     float64
	SpeedKPH          float64
}

// RouteSpeedRow aggregates segment speeds per directed route.
type RouteSpeedRow struct {
	DirectedRouteID string
	AgencyName      string
	SegmentCount    int
	MinSpeedKPH     float64
	MeanSpeedKPH    float64
	MaxSpeedKPH     float64
}

// SegmentSpeeds derives scheduled speeds from the service links of the
// network. Links with a zero travel time are skipped.
func SegmentSpeeds(links []gmns.Link) []SegmentSpeedRow {
	var rows []SegmentSpeedRow
	for _, l := range links {
		if l.LinkType != gmns.LinkTypeService || l.FFTT <= 0 {
			continue
		}
		rows = append(rows, SegmentSpeedRow{
			LinkID:            l.LinkID,
			DirectedServiceID: l.DirectedServiceID,
			AgencyName:        l.AgencyName,
			FromNodeID:        l.FromNodeID,
			ToNodeID:          l.ToNodeID,
			LengthM:           l.Length,
			TravelTimeMin:     l.FFTT,
			SpeedKPH:          (l.Length / 1000) / l.FFTT * 60,
		})
	}
	return rows
}

// RouteSpeeds reduces segment speeds to min, mean and max per directed
// route, sorted by route id for stable output.
func RouteSpeeds(links []gmns.Link) []RouteSpeedRow {
	type acc struct {
		agency string
		count  int
		sum    float64
		min    float64
		max    float64
	}
	byRoute := make(map[string]*acc)
	for _, s := range SegmentSpeeds(links) {
		routeID := directedRouteOf(s.DirectedServiceID)
		a := byRoute[routeID]
		if a == nil {
			a = &acc{agency: s.AgencyName, min: s.SpeedKPH, max: s.SpeedKPH}
			byRoute[routeID] = a
		}
		a.count++
		a.sum += s.SpeedKPH
		if s.SpeedKPH < a.min {
			a.min = s.SpeedKPH
		}
		if s.SpeedKPH > a.max {
			a.max = s.SpeedKPH
		}
	}

	routeIDs := make([]string, 0, len(byRoute))
	for id := range byRoute {
		routeIDs = append(routeIDs, id)
	}
	sort.Strings(routeIDs)

	rows := make([]RouteSpeedRow, 0, len(routeIDs))
	for _, id := range routeIDs {
		a := byRoute[id]
		rows = append(rows, RouteSpeedRow{
			DirectedRouteID: id,
			AgencyName:      a.agency,
			SegmentCount:    a.count,
			MinSpeedKPH:     a.min,
			MeanSpeedKPH:    a.sum / float64(a.count),
			MaxSpeedKPH:     a.max,
		})
	}
	return rows
}

// directedRouteOf strips the pattern label off a directed service id.
func directedRouteOf(directedServiceID string) string {
	for i := len(directedServiceID) - 1; i >= 0; i-- {
		if directedServiceID[i] == ':' {
			return directedServiceID[:i]
		}
	}
	return directedServiceID
}
