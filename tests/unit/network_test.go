package unit

import (
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/converter"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/tests/helpers"
)

func TestNodeGeneration(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	var physical, service []gmns.Node
	for _, n := range conv.Nodes {
		if n.IsPhysical() {
			physical = append(physical, n)
		} else {
			service = append(service, n)
		}
	}

	if len(physical) != 6 {
		t.Errorf("expected 6 physical nodes, got %d", len(physical))
	}
	// 7 for R1.2 (patterns 1 and 2), 4 for R1.1, 2 for R2.2
	if len(service) != 13 {
		t.Errorf("expected 13 service nodes, got %d", len(service))
	}

	// physical ids assigned in sorted stop_id order from the base
	if physical[0].Name != "M1" || physical[0].NodeID != 1000001 {
		t.Errorf("first physical node: got %s id %d", physical[0].Name, physical[0].NodeID)
	}
	if physical[5].Name != "S4" || physical[5].NodeID != 1000006 {
		t.Errorf("last physical node: got %s id %d", physical[5].Name, physical[5].NodeID)
	}

	for _, n := range service {
		if n.NodeID < 1500001 {
			t.Errorf("service node %s has id %d below the service base", n.Name, n.NodeID)
		}
		if n.PhysicalNodeID >= 1500000 || n.PhysicalNodeID < 1000001 {
			t.Errorf("service node %s points at invalid station %d", n.Name, n.PhysicalNodeID)
		}
	}
}

func TestNodeTypesAndGeometry(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	byName := map[string]gmns.Node{}
	for _, n := range conv.Nodes {
		byName[n.Name] = n
	}

	if got := byName["S1"].NodeType; got != "bus_stop" {
		t.Errorf("bus stop node_type: %q", got)
	}
	if got := byName["M1"].NodeType; got != "metro_station" {
		t.Errorf("metro station node_type: %q", got)
	}
	if got := byName["R1.2.S1:1"].NodeType; got != "bus_service_node" {
		t.Errorf("bus service node_type: %q", got)
	}
	if got := byName["R2.2.M1:1"].NodeType; got != "metro_service_node" {
		t.Errorf("metro service node_type: %q", got)
	}

	// service nodes sit slightly southwest of their station
	svc := byName["R1.2.S1:1"]
	phys := byName["S1"]
	if svc.XCoord >= phys.XCoord || svc.YCoord >= phys.YCoord {
		t.Error("service node should be offset from its station")
	}
	if !strings.HasPrefix(phys.Geometry, "POINT (") {
		t.Errorf("physical node geometry: %q", phys.Geometry)
	}
}

func TestServiceLinks(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	var serviceLinks []gmns.Link
	for _, l := range conv.Links {
		if l.LinkType == gmns.LinkTypeService {
			serviceLinks = append(serviceLinks, l)
		}
	}
	// 3 for R1.2:1, 2 for R1.2:2, 3 for R1.1:1, 1 for R2.2:1
	if len(serviceLinks) != 9 {
		t.Fatalf("expected 9 service links, got %d", len(serviceLinks))
	}

	var first gmns.Link
	for _, l := range serviceLinks {
		if l.DirectedServiceID == "R1.2:1" && l.StopSequence == "1" {
			first = l
		}
	}
	if first.LinkID == 0 {
		t.Fatal("R1.2:1 first segment not found")
	}
	if first.FFTT != 5 {
		t.Errorf("S1->S2 scheduled time should be 5 min, got %f", first.FFTT)
	}
	if first.Lanes != 2 {
		t.Errorf("R1.2:1 runs 2 trips, lanes should be 2, got %d", first.Lanes)
	}
	if first.VDFCap != 2*999999 {
		t.Errorf("VDF cap should scale with frequency, got %f", first.VDFCap)
	}
	if first.FacilityType != "bus" || first.AllowedUses != "bus" {
		t.Errorf("bus service link tagged %q/%q", first.FacilityType, first.AllowedUses)
	}
	if !strings.HasPrefix(first.Geometry, "LINESTRING (") {
		t.Errorf("link geometry: %q", first.Geometry)
	}
}

func TestBoardingLinks(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	var boarding []gmns.Link
	for _, l := range conv.Links {
		if l.LinkType == gmns.LinkTypeBoarding {
			boarding = append(boarding, l)
		}
	}
	if len(boarding) != 26 {
		t.Fatalf("expected 26 boarding links (13 service nodes x 2), got %d", len(boarding))
	}

	inbound := 0
	outbound := 0
	for _, l := range boarding {
		switch {
		case l.FromNodeID < 1500000 && l.ToNodeID >= 1500000:
			inbound++
			// 0.5 * 60 min / 2 trips = 15, capped at 10
			if l.FFTT != 10 {
				t.Errorf("inbound boarding fftt should be capped at 10, got %f", l.FFTT)
			}
		case l.FromNodeID >= 1500000 && l.ToNodeID < 1500000:
			outbound++
			if l.FFTT != 1 {
				t.Errorf("outbound boarding fftt should be 1, got %f", l.FFTT)
			}
		default:
			t.Errorf("boarding link %d connects %d -> %d", l.LinkID, l.FromNodeID, l.ToNodeID)
		}
		if l.StopSequence != "-1" {
			t.Errorf("boarding link stop_sequence should be -1, got %q", l.StopSequence)
		}
	}
	if inbound != 13 || outbound != 13 {
		t.Errorf("expected 13 inbound and 13 outbound, got %d/%d", inbound, outbound)
	}
}

func TestTransferLinks(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	byPair := map[[2]int]gmns.Link{}
	for _, l := range conv.Links {
		if l.LinkType == gmns.LinkTypeTransfer {
			byPair[[2]int{l.FromNodeID, l.ToNodeID}] = l
		}
	}
	// M1 is within walking range of S1..S4; M2 is isolated
	if len(byPair) != 8 {
		t.Fatalf("expected 8 transfer links, got %d", len(byPair))
	}

	s2 := 1000004
	m1 := 1000001
	forward, ok := byPair[[2]int{s2, m1}]
	if !ok {
		t.Fatal("no transfer link from S2 to M1")
	}
	if _, ok := byPair[[2]int{m1, s2}]; !ok {
		t.Error("transfer links must come in bidirectional pairs")
	}

	if forward.VDFPenalty != 10 {
		t.Errorf("bus-to-metro transfer penalty should be 10, got %f", forward.VDFPenalty)
	}
	if forward.AllowedUses != "transfer_intermodal" {
		t.Errorf("cross-mode transfer allowed_uses: %q", forward.AllowedUses)
	}
	if forward.Cost != 60 {
		t.Errorf("transfer cost should be 60, got %f", forward.Cost)
	}
	// ~28 m at 1 km/h
	if forward.FFTT < 1 || forward.FFTT > 3 {
		t.Errorf("S2-M1 walk time out of range: %f min", forward.FFTT)
	}

	m2 := 1000002
	for pair := range byPair {
		if pair[0] == m2 || pair[1] == m2 {
			t.Error("M2 is beyond walking range and must have no transfers")
		}
	}
}

func TestLinkDedupeAndIDs(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	seenPair := map[[2]int]bool{}
	seenID := map[int]bool{}
	for _, l := range conv.Links {
		pair := [2]int{l.FromNodeID, l.ToNodeID}
		if seenPair[pair] {
			t.Errorf("duplicate link %d -> %d survived dedupe", l.FromNodeID, l.ToNodeID)
		}
		seenPair[pair] = true
		if seenID[l.LinkID] {
			t.Errorf("link id %d assigned twice", l.LinkID)
		}
		seenID[l.LinkID] = true
	}
	// 9 service + 26 boarding + 8 transfers
	if len(conv.Links) != 43 {
		t.Errorf("expected 43 links, got %d", len(conv.Links))
	}
}

func TestAccessLinks(t *testing.T) {
	conv := helpers.BuildFixtureNetwork(t)

	hwy := []converter.HighwayNode{
		{NodeID: 1, X: 23.3205, Y: 42.6905},
		{NodeID: 2, X: 24.5000, Y: 43.5000}, // ~120 km away, never nearest
	}
	created := conv.AddAccessLinks(hwy, 10)

	// 7 bus service nodes on R1.2 plus 4 on R1.1; metro nodes get none
	if created != 11 {
		t.Fatalf("expected 11 access links, got %d", created)
	}

	var access []gmns.Link
	for _, l := range conv.Links {
		if l.LinkType == gmns.LinkTypeAccess {
			access = append(access, l)
		}
	}
	if len(access) != created {
		t.Fatalf("access link count mismatch: %d vs %d", len(access), created)
	}
	for _, l := range access {
		if l.ToNodeID != 1 {
			t.Errorf("access link %d should target highway node 1, got %d", l.LinkID, l.ToNodeID)
		}
		if l.LinkTypeName != "bus_access_link" {
			t.Errorf("access link name: %q", l.LinkTypeName)
		}
		if l.Capacity != 0 || l.DirFlag != 0 {
			t.Errorf("access link %d: capacity %f dir_flag %d", l.LinkID, l.Capacity, l.DirFlag)
		}
		if l.AllowedUses != "t" {
			t.Errorf("access link allowed_uses: %q", l.AllowedUses)
		}
		if l.FreeSpeed != 2.72727 {
			t.Errorf("access link free_speed: %f", l.FreeSpeed)
		}
		// length is in miles and the walk is well under one mile
		if l.Length <= 0 || l.Length > 1 {
			t.Errorf("access link length out of range: %f mi", l.Length)
		}
	}
}

func TestAccessLinksHighLatitude(t *testing.T) {
	conv, err := converter.NewConverter(helpers.TestConfig())
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	// near Tromsoe, where a degree of longitude spans only ~39 km
	conv.Nodes = append(conv.Nodes, gmns.Node{
		NodeID:   1500001,
		Name:     "T1",
		NodeType: "bus_service_node",
		XCoord:   18.9553,
		YCoord:   69.6492,
	})

	// ~7.9 km due west, inside the 10 km search distance
	hwy := []converter.HighwayNode{{NodeID: 1, X: 18.7500, Y: 69.6492}}
	if created := conv.AddAccessLinks(hwy, 10); created != 1 {
		t.Fatalf("expected 1 access link at high latitude, got %d", created)
	}

	l := conv.Links[len(conv.Links)-1]
	if l.FromNodeID != 1500001 || l.ToNodeID != 1 {
		t.Errorf("access link endpoints: %d -> %d", l.FromNodeID, l.ToNodeID)
	}
	// ~7.9 km is ~4.9 mi
	if l.Length < 4 || l.Length > 6 {
		t.Errorf("access link length out of range: %f mi", l.Length)
	}
}
