package converter

import (
	"strconv"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

const (
	serviceLinkCapacity = 999999
	maxBoardingWaitMin  = 10 // waiting time at a station is capped at 10 minutes
)

// addServiceLinks creates one run of links along each directed service's
// stop pattern, using the service's first trip as the representative run.
// The number of trips of the service in the window becomes the link lanes.
func (c *Converter) addServiceLinks(tt *Timetable, svcByName map[string]int) int {
	created := 0
	for _, serviceID := range tt.ServiceOrder {
		trips := tt.ServiceTrips[serviceID]
		frequency := len(trips)
		recs := tt.TripRecords(trips[0])
		if len(recs) < 2 {
			c.Warns.Add(WarningSingleStopService, serviceID)
			continue
		}

		for k := 0; k < len(recs)-1; k++ {
			from := recs[k]
			to := recs[k+1]
			lengthM := utils.HaversineM(from.StopLat, from.StopLon, to.StopLat, to.StopLon)
			fftt := float64(to.ArrivalMin - from.ArrivalMin)
			// km per minute scaled to km/h; +0.001 avoids dividing by a
			// zero dwell-to-dwell time
			freeSpeed := (lengthM / 1000) / (fftt + 0.001) * 60

			c.Links = append(c.Links, gmns.Link{
				LinkID:            c.newLinkID(),
				FromNodeID:        svcByName[from.DirectedServiceStopID],
				ToNodeID:          svcByName[to.DirectedServiceStopID],
				FacilityType:      gmns.FacilityType(from.RouteType),
				DirFlag:           1,
				DirectedRouteID:   from.DirectedRouteID,
				LinkType:          gmns.LinkTypeService,
				LinkTypeName:      gmns.LinkNameService,
				Length:            lengthM,
				Lanes:             frequency,
				Capacity:          serviceLinkCapacity,
				FreeSpeed:         freeSpeed,
				FFTT:              fftt,
				VDFCap:            float64(frequency) * serviceLinkCapacity,
				VDFAlpha:          gmns.VDFAlpha,
				VDFBeta:           gmns.VDFBeta,
				Geometry:          gmns.LineWKT(from.StopLon, from.StopLat, to.StopLon, to.StopLat),
				AllowedUses:       gmns.AllowedUse(from.RouteType),
				AgencyName:        from.AgencyName,
				StopSequence:      strconv.Itoa(from.StopSequence),
				DirectedServiceID: serviceID,
			})
			created++
		}
	}
	return created
}

// addBoardingLinks connects every service node to its station: an inbound
// link whose travel time is the mean wait (half the headway, capped), and
// an outbound link with a fixed one-minute alighting time.
func (c *Converter) addBoardingLinks(tt *Timetable, feedNodes []gmns.Node, physByStop map[string]int) int {
	coord := make(map[int][2]float64, len(feedNodes))
	for _, n := range feedNodes {
		if n.IsPhysical() {
			coord[n.NodeID] = [2]float64{n.XCoord, n.YCoord}
		}
	}

	windowMin := float64(c.WindowEnd - c.WindowStart)
	created := 0
	for _, n := range feedNodes {
		if n.IsPhysical() {
			continue
		}
		phys := coord[n.PhysicalNodeID]
		lengthM := utils.HaversineM(phys[1], phys[0], n.YCoord, n.XCoord)

		frequency := tt.Frequency(n.DirectedServiceID)
		wait := maxBoardingWaitMin * 1.0
		if frequency > 0 {
			wait = 0.5 * windowMin / float64(frequency)
			if wait > maxBoardingWaitMin {
				wait = maxBoardingWaitMin
			}
		}

		base := gmns.Link{
			FacilityType:      gmns.FacilityType(n.RouteType),
			DirFlag:           1,
			DirectedRouteID:   n.DirectedRouteID,
			LinkType:          gmns.LinkTypeBoarding,
			LinkTypeName:      gmns.LinkNameBoarding,
			Length:            lengthM,
			Lanes:             1,
			Capacity:          serviceLinkCapacity,
			FreeSpeed:         2,
			VDFCap:            serviceLinkCapacity,
			VDFAlpha:          gmns.VDFAlpha,
			VDFBeta:           gmns.VDFBeta,
			AllowedUses:       gmns.AllowedUse(n.RouteType),
			AgencyName:        n.AgencyName,
			StopSequence:      "-1",
			DirectedServiceID: n.DirectedServiceID,
		}

		inbound := base
		inbound.LinkID = c.newLinkID()
		inbound.FromNodeID = n.PhysicalNodeID
		inbound.ToNodeID = n.NodeID
		inbound.FFTT = wait
		inbound.Geometry = gmns.LineWKT(phys[0], phys[1], n.XCoord, n.YCoord)

		outbound := base
		outbound.LinkID = c.newLinkID()
		outbound.FromNodeID = n.NodeID
		outbound.ToNodeID = n.PhysicalNodeID
		outbound.FFTT = 1
		outbound.Geometry = gmns.LineWKT(n.XCoord, n.YCoord, phys[0], phys[1])

		c.Links = append(c.Links, inbound, outbound)
		created += 2
	}
	return created
}
