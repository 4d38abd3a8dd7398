package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// accessWalkSpeedMPH is 4 ft/s expressed in mph (4*3600/5280); access
// links keep the mile-based units of the highway network they attach to.
const accessWalkSpeedMPH = 2.72727

// HighwayNode is one row of an external GMNS highway node table.
type HighwayNode struct {
	NodeID int
	X      float64
	Y      float64
}

// LoadHighwayNodes reads node_id, x_coord and y_coord from a GMNS node.csv.
func LoadHighwayNodes(path string) ([]HighwayNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open highway node file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read highway node header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"node_id", "x_coord", "y_coord"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("highway node file %s has no %s column", path, col)
		}
	}

	var nodes []HighwayNode
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[idx["node_id"]]))
		if err != nil {
			continue
		}
		x, _ := strconv.ParseFloat(strings.TrimSpace(rec[idx["x_coord"]]), 64)
		y, _ := strconv.ParseFloat(strings.TrimSpace(rec[idx["y_coord"]]), 64)
		nodes = append(nodes, HighwayNode{NodeID: id, X: x, Y: y})
	}
	return nodes, nil
}

// AddAccessLinks connects every bus service node to its nearest highway
// node within maxKM, so transit itineraries can enter the road network.
func (c *Converter) AddAccessLinks(hwy []HighwayNode, maxKM float64) int {
	if len(hwy) == 0 {
		return 0
	}

	// Grid cells sized to the search distance. A degree of longitude
	// shrinks with latitude, so the x cell widens by 1/cos(lat) or the
	// neighbor scan would miss nodes at high latitudes.
	meanLat := 0.0
	for _, h := range hwy {
		meanLat += h.Y
	}
	meanLat /= float64(len(hwy))
	cosLat := math.Cos(meanLat * math.Pi / 180)
	if cosLat < 0.05 {
		cosLat = 0.05
	}
	cellX := maxKM / (111.0 * cosLat)
	cellY := maxKM / 111.0
	grid := make(map[[2]int][]int)
	binOf := func(x, y float64) [2]int {
		return [2]int{int(math.Floor(x / cellX)), int(math.Floor(y / cellY))}
	}
	for i, h := range hwy {
		grid[binOf(h.X, h.Y)] = append(grid[binOf(h.X, h.Y)], i)
	}

	created := 0
	for _, n := range c.Nodes {
		if n.NodeType != "bus_service_node" {
			continue
		}

		best := -1
		bestKM := maxKM
		b := binOf(n.XCoord, n.YCoord)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, i := range grid[[2]int{b[0] + dx, b[1] + dy}] {
					km := utils.HaversineKM(n.YCoord, n.XCoord, hwy[i].Y, hwy[i].X)
					if km <= bestKM {
						best = i
						bestKM = km
					}
				}
			}
		}
		if best < 0 {
			c.Warns.Add(WarningNoHighwayNode, n.Name)
			continue
		}

		target := hwy[best]
		lengthMi := bestKM * utils.MilesPerKilometer
		c.Links = append(c.Links, gmns.Link{
			LinkID:            c.newLinkID(),
			FromNodeID:        n.NodeID,
			ToNodeID:          target.NodeID,
			FacilityType:      "access",
			DirFlag:           0,
			LinkType:          gmns.LinkTypeAccess,
			LinkTypeName:      gmns.LinkNameAccess,
			Length:            lengthMi,
			Lanes:             1,
			Capacity:          0,
			FreeSpeed:         accessWalkSpeedMPH,
			FFTT:              lengthMi / accessWalkSpeedMPH * 60,
			VDFAlpha:          gmns.VDFAlpha,
			VDFBeta:           gmns.VDFBeta,
			Geometry:          gmns.LineWKT(n.XCoord, n.YCoord, target.X, target.Y),
			AllowedUses:       "t",
			AgencyName:        n.AgencyName,
			DirectedServiceID: n.DirectedServiceID,
		})
		created++
	}
	return created
}
