package unit

import (
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

func TestMode(t *testing.T) {
	tests := []struct {
		routeType int
		expected  string
	}{
		{0, "tram"},
		{1, "metro"},
		{2, "rail"},
		{3, "bus"},
		{4, "ferry"},
		{7, "funicular"},
		{11, "trolleybus"},
		{99, "transit"},
	}

	for _, tt := range tests {
		if got := gmns.Mode(tt.routeType); got != tt.expected {
			t.Errorf("Mode(%d): expected %s, got %s", tt.routeType, tt.expected, got)
		}
	}
}

func TestNodeTypeNames(t *testing.T) {
	if got := gmns.PhysicalNodeType(3); got != "bus_stop" {
		t.Errorf("bus physical node type: %q", got)
	}
	if got := gmns.PhysicalNodeType(1); got != "metro_station" {
		t.Errorf("metro physical node type: %q", got)
	}
	if got := gmns.ServiceNodeType(3); got != "bus_service_node" {
		t.Errorf("bus service node type: %q", got)
	}
	if got := gmns.ServiceNodeType(0); got != "tram_service_node" {
		t.Errorf("tram service node type: %q", got)
	}
}

func TestTransferTagging(t *testing.T) {
	if p := gmns.TransferPenalty("bus_stop", "bus_stop"); p != 0 {
		t.Errorf("same-mode transfer penalty: %f", p)
	}
	if p := gmns.TransferPenalty("bus_stop", "metro_station"); p != 10 {
		t.Errorf("cross-mode transfer penalty: %f", p)
	}
	if u := gmns.AllowedUseTransfer("bus_stop", "bus_stop"); u != "transfer" {
		t.Errorf("same-mode allowed_uses: %q", u)
	}
	if u := gmns.AllowedUseTransfer("bus_stop", "metro_station"); u != "transfer_intermodal" {
		t.Errorf("cross-mode allowed_uses: %q", u)
	}
}

func TestWKT(t *testing.T) {
	if got := gmns.PointWKT(23.3212, 42.6912); got != "POINT (23.3212 42.6912)" {
		t.Errorf("point WKT: %q", got)
	}
	got := gmns.LineWKT(23.32, 42.69, 23.33, 42.7)
	if got != "LINESTRING (23.32 42.69, 23.33 42.7)" {
		t.Errorf("line WKT: %q", got)
	}
}

func TestCSVRecordsMatchHeaders(t *testing.T) {
	n := gmns.Node{Name: "S1", NodeID: 1000001, PhysicalNodeID: 1000001}
	if got := len(n.CSVRecord()); got != len(gmns.NodeHeader) {
		t.Errorf("node record has %d fields, header has %d", got, len(gmns.NodeHeader))
	}

	l := gmns.Link{LinkID: 1000001, FromNodeID: 1000001, ToNodeID: 1500001}
	if got := len(l.CSVRecord()); got != len(gmns.LinkHeader) {
		t.Errorf("link record has %d fields, header has %d", got, len(gmns.LinkHeader))
	}
}

func TestFtoa(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0"},
		{0.15, "0.15"},
		{4, "4"},
		{999999, "999999"},
		{321.869, "321.869"},
	}
	for _, tt := range tests {
		if got := gmns.Ftoa(tt.value); got != tt.expected {
			t.Errorf("Ftoa(%v): expected %s, got %s", tt.value, tt.expected, got)
		}
	}
}
