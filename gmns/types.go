package gmns

import (
	"strconv"
)

// Link type codes used in the link table.
const (
	LinkTypeService  = 1
	LinkTypeBoarding = 2
	LinkTypeTransfer = 3
	LinkTypeAccess   = 4
)

// Link type names as written to link.csv.
const (
	LinkNameService  = "service_links"
	LinkNameBoarding = "boarding_links"
	LinkNameTransfer = "transferring_links"
	LinkNameAccess   = "bus_access_link"
)

// VDF (volume-delay function) defaults carried on every link.
const (
	VDFAlpha = 0.15
	VDFBeta  = 4.0
)

// Node is one row of the GMNS node table. Physical nodes represent
// stations (NodeID == PhysicalNodeID); service nodes represent one stop of
// one directed service pattern and point back at their station through
// PhysicalNodeID.
type Node struct {
	Name              string
	NodeID            int
	PhysicalNodeID    int
	XCoord            float64
	YCoord            float64
	RouteType         int
	RouteID           string
	NodeType          string
	DirectedRouteID   string
	DirectedServiceID string
	ZoneID            string
	AgencyName        string
	Geometry          string
	TerminalFlag      int
	CtrlType          string
	AgentType         string
}

// IsPhysical reports whether the node is a station node.
func (n Node) IsPhysical() bool { return n.NodeID == n.PhysicalNodeID }

// NodeHeader is the node.csv column order.
var NodeHeader = []string{
	"name", "node_id", "physical_node_id", "x_coord", "y_coord",
	"route_type", "route_id", "node_type", "directed_route_id",
	"directed_service_id", "zone_id", "agency_name", "geometry",
	"terminal_flag", "ctrl_type", "agent_type",
}

// CSVRecord renders the node as a node.csv row in NodeHeader order.
func (n Node) CSVRecord() []string {
	return []string{
		n.Name,
		strconv.Itoa(n.NodeID),
		strconv.Itoa(n.PhysicalNodeID),
		Ftoa(n.XCoord),
		Ftoa(n.YCoord),
		strconv.Itoa(n.RouteType),
		n.RouteID,
		n.NodeType,
		n.DirectedRouteID,
		n.DirectedServiceID,
		n.ZoneID,
		n.AgencyName,
		n.Geometry,
		strconv.Itoa(n.TerminalFlag),
		n.CtrlType,
		n.AgentType,
	}
}

// Link is one row of the GMNS link table. Length is in meters, FFTT
// (free-flow travel time) in minutes and FreeSpeed in km/h, except for
// access links, which use miles and mph to match the highway network.
type Link struct {
	LinkID            int
	FromNodeID        int
	ToNodeID          int
	FacilityType      string
	DirFlag           int
	DirectedRouteID   string
	LinkType          int
	LinkTypeName      string
	Length            float64
	Lanes             int
	Capacity          float64
	FreeSpeed         float64
	Cost              float64
	FFTT              float64
	VDFCap            float64
	VDFAlpha          float64
	VDFBeta           float64
	VDFPenalty        float64
	Geometry          string
	AllowedUses       string
	AgencyName        string
	StopSequence      string
	DirectedServiceID string
}

// LinkHeader is the link.csv column order.
var LinkHeader = []string{
	"link_id", "from_node_id", "to_node_id", "facility_type", "dir_flag",
	"directed_route_id", "link_type", "link_type_name", "length", "lanes",
	"capacity", "free_speed", "cost", "VDF_fftt1", "VDF_cap1",
	"VDF_alpha1", "VDF_beta1", "VDF_penalty1", "geometry",
	"VDF_allowed_uses1", "agency_name", "stop_sequence",
	"directed_service_id",
}

// CSVRecord renders the link as a link.csv row in LinkHeader order.
func (l Link) CSVRecord() []string {
	return []string{
		strconv.Itoa(l.LinkID),
		strconv.Itoa(l.FromNodeID),
		strconv.Itoa(l.ToNodeID),
		l.FacilityType,
		strconv.Itoa(l.DirFlag),
		l.DirectedRouteID,
		strconv.Itoa(l.LinkType),
		l.LinkTypeName,
		Ftoa(l.Length),
		strconv.Itoa(l.Lanes),
		Ftoa(l.Capacity),
		Ftoa(l.FreeSpeed),
		Ftoa(l.Cost),
		Ftoa(l.FFTT),
		Ftoa(l.VDFCap),
		Ftoa(l.VDFAlpha),
		Ftoa(l.VDFBeta),
		Ftoa(l.VDFPenalty),
		l.Geometry,
		l.AllowedUses,
		l.AgencyName,
		l.StopSequence,
		l.DirectedServiceID,
	}
}

// Ftoa renders a float without trailing zeros, the way the tables are
// published.
func Ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
