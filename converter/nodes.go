package converter

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

// serviceNodeOffset nudges service nodes off their station so both are
// visible when the network is drawn.
const serviceNodeOffset = 0.0001

// addNodes creates the feed's physical (station) nodes and service nodes
// and returns lookup maps from stop_id and directed_service_stop_id to the
// assigned node ids.
func (c *Converter) addNodes(tt *Timetable) (physByStop map[string]int, svcByName map[string]int) {
	// First record per stop_id / per directed_service_stop_id wins,
	// matching a drop-duplicates pass over the timetable.
	firstByStop := make(map[string]Record)
	firstBySvcStop := make(map[string]Record)
	for _, rec := range tt.Records {
		if _, ok := firstByStop[rec.StopID]; !ok {
			firstByStop[rec.StopID] = rec
		}
		if _, ok := firstBySvcStop[rec.DirectedServiceStopID]; !ok {
			firstBySvcStop[rec.DirectedServiceStopID] = rec
		}
	}

	stopIDs := make([]string, 0, len(firstByStop))
	for stopID := range firstByStop {
		stopIDs = append(stopIDs, stopID)
	}
	sort.Strings(stopIDs)

	physByStop = make(map[string]int, len(stopIDs))
	for _, stopID := range stopIDs {
		rec := firstByStop[stopID]
		c.nextPhysicalID++
		id := c.nextPhysicalID
		physByStop[stopID] = id
		c.Nodes = append(c.Nodes, gmns.Node{
			Name:           stopID,
			NodeID:         id,
			PhysicalNodeID: id,
			XCoord:         rec.StopLon,
			YCoord:         rec.StopLat,
			RouteType:      rec.RouteType,
			RouteID:        rec.RouteID,
			NodeType:       gmns.PhysicalNodeType(rec.RouteType),
			AgencyName:     rec.AgencyName,
			Geometry:       gmns.PointWKT(rec.StopLon, rec.StopLat),
			TerminalFlag:   rec.TerminalFlag,
		})
	}

	svcNames := make([]string, 0, len(firstBySvcStop))
	for name := range firstBySvcStop {
		svcNames = append(svcNames, name)
	}
	sort.Strings(svcNames)

	svcByName = make(map[string]int, len(svcNames))
	for _, name := range svcNames {
		rec := firstBySvcStop[name]
		c.nextServiceID++
		id := c.nextServiceID
		svcByName[name] = id
		x := rec.StopLon - serviceNodeOffset
		y := rec.StopLat - serviceNodeOffset
		c.Nodes = append(c.Nodes, gmns.Node{
			Name:              name,
			NodeID:            id,
			PhysicalNodeID:    physByStop[rec.StopID],
			XCoord:            x,
			YCoord:            y,
			RouteType:         rec.RouteType,
			RouteID:           rec.RouteID,
			NodeType:          gmns.ServiceNodeType(rec.RouteType),
			DirectedRouteID:   rec.DirectedRouteID,
			DirectedServiceID: rec.DirectedServiceID,
			AgencyName:        rec.AgencyName,
			Geometry:          gmns.PointWKT(x, y),
			TerminalFlag:      rec.TerminalFlag,
		})
	}

	return physByStop, svcByName
}
