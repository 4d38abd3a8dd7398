package converter

import (
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

const transferWalkSpeedKPH = 1.0

// addTransferLinks creates walking links between nearby physical nodes of
// different route/agency pairs, over the combined node set of every feed
// added so far. Candidates come from a uniform grid keyed by the search
// radius, so the pass stays near-linear in the node count.
func (c *Converter) addTransferLinks() int {
	cfg := c.Cfg.Conversion.Transfer

	var physical []gmns.Node
	for _, n := range c.Nodes {
		if n.IsPhysical() {
			physical = append(physical, n)
		}
	}
	if len(physical) < 2 {
		return 0
	}

	cell := cfg.SearchRadiusDeg
	grid := make(map[[2]int][]int)
	binOf := func(x, y float64) [2]int {
		return [2]int{int(math.Floor(x / cell)), int(math.Floor(y / cell))}
	}
	for i, n := range physical {
		b := binOf(n.XCoord, n.YCoord)
		grid[b] = append(grid[b], i)
	}

	created := 0
	for i := range physical {
		from := physical[i]

		var candidates []int
		b := binOf(from.XCoord, from.YCoord)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				candidates = append(candidates, grid[[2]int{b[0] + dx, b[1] + dy}]...)
			}
		}
		sort.Ints(candidates)

		labeled := make(map[[2]string]struct{})
		count := 0
		for _, j := range candidates {
			if count >= cfg.MaxTargets {
				break
			}
			to := physical[j]
			if from.RouteID == to.RouteID && from.AgencyName == to.AgencyName {
				continue
			}
			if math.Abs(to.XCoord-from.XCoord) > cfg.SearchRadiusDeg ||
				math.Abs(to.YCoord-from.YCoord) > cfg.SearchRadiusDeg {
				continue
			}
			lengthM := utils.HaversineM(from.YCoord, from.XCoord, to.YCoord, to.XCoord)
			if lengthM > cfg.MaxLengthM || lengthM < cfg.MinLengthM {
				continue
			}
			pair := [2]string{to.RouteID, to.AgencyName}
			if _, dup := labeled[pair]; dup {
				// only one stop of each neighboring route
				continue
			}
			labeled[pair] = struct{}{}
			count++

			fftt := (lengthM / 1000) / transferWalkSpeedKPH * 60
			penalty := gmns.TransferPenalty(from.NodeType, to.NodeType)
			allowed := gmns.AllowedUseTransfer(from.NodeType, to.NodeType)

			base := gmns.Link{
				FacilityType:    "sta2sta",
				DirFlag:         1,
				DirectedRouteID: "-1",
				LinkType:        gmns.LinkTypeTransfer,
				LinkTypeName:    gmns.LinkNameTransfer,
				Length:          lengthM,
				Lanes:           1,
				Capacity:        serviceLinkCapacity,
				FreeSpeed:       transferWalkSpeedKPH,
				Cost:            60,
				FFTT:            fftt,
				VDFCap:          serviceLinkCapacity,
				VDFAlpha:        gmns.VDFAlpha,
				VDFBeta:         gmns.VDFBeta,
				VDFPenalty:      penalty,
				AllowedUses:     allowed,
			}

			forward := base
			forward.LinkID = c.newLinkID()
			forward.FromNodeID = from.NodeID
			forward.ToNodeID = to.NodeID
			forward.Geometry = gmns.LineWKT(from.XCoord, from.YCoord, to.XCoord, to.YCoord)

			backward := base
			backward.LinkID = c.newLinkID()
			backward.FromNodeID = to.NodeID
			backward.ToNodeID = from.NodeID
			backward.Geometry = gmns.LineWKT(to.XCoord, to.YCoord, from.XCoord, from.YCoord)

			c.Links = append(c.Links, forward, backward)
			created += 2
		}
	}
	return created
}
