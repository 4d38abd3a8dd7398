package gmns

// Mode returns the mode name for a GTFS route_type.
func Mode(routeType int) string {
	switch routeType {
	case 0:
		return "tram"
	case 1:
		return "metro"
	case 2:
		return "rail"
	case 3:
		return "bus"
	case 4:
		return "ferry"
	case 5:
		return "cable_car"
	case 6:
		return "gondola"
	case 7:
		return "funicular"
	case 11:
		return "trolleybus"
	case 12:
		return "monorail"
	default:
		return "transit"
	}
}

// PhysicalNodeType maps a route_type to the station node_type.
func PhysicalNodeType(routeType int) string {
	if routeType == 3 {
		return "bus_stop"
	}
	return Mode(routeType) + "_station"
}

// ServiceNodeType maps a route_type to the service node_type, e.g.
// "bus_service_node".
func ServiceNodeType(routeType int) string {
	return Mode(routeType) + "_service_node"
}

// FacilityType maps a route_type to the link facility_type.
func FacilityType(routeType int) string {
	return Mode(routeType)
}

// AllowedUse returns the allowed_uses tag for service and boarding links
// of a route_type.
func AllowedUse(routeType int) string {
	return Mode(routeType)
}

// AllowedUseTransfer returns the allowed_uses tag for a transfer link
// between two node types.
func AllowedUseTransfer(nodeTypeA, nodeTypeB string) string {
	if nodeTypeA == nodeTypeB {
		return "transfer"
	}
	return "transfer_intermodal"
}

// TransferPenalty is the VDF penalty for transferring between two node
// types: free within a mode, 10 minutes across modes.
func TransferPenalty(nodeTypeA, nodeTypeB string) float64 {
	if nodeTypeA == nodeTypeB {
		return 0
	}
	return 10
}
