package converter

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Warning type constants
const (
	WarningTripNoStopTimes   = "trip_no_stop_times"
	WarningTripUnknownRoute  = "trip_unknown_route"
	WarningStopNotFound      = "stop_not_found"
	WarningStopNoCoord       = "stop_no_coord"
	WarningNonMonotonicTimes = "non_monotonic_times"
	WarningSingleStopService = "single_stop_service"
	WarningNoHighwayNode     = "no_highway_node"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects data-quality warnings during conversion and
// outputs consolidated summaries instead of one line per record. Safe for
// concurrent use; timetables for several feeds may build in parallel.
type WarningAggregator struct {
	mu       sync.Mutex
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns the number of occurrences recorded for a warning type.
func (w *WarningAggregator) Count(warningType string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if info, ok := w.warnings[warningType]; ok {
		return info.count
	}
	return 0
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(feedName string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.warnings) == 0 {
		return
	}

	for warningType, info := range w.warnings {
		message := w.formatWarningMessage(warningType, feedName, info)
		log.Printf("%s", message)
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, feedName string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningTripNoStopTimes:
		description = "trips with no usable stop_times"
		action = "Excluding them from the network"
	case WarningTripUnknownRoute:
		description = "trips referencing a route_id absent from routes.txt"
		action = "Excluding them from the network"
	case WarningStopNotFound:
		description = "stop_time rows referencing a stop_id absent from stops.txt"
		action = "Dropping the affected rows"
	case WarningStopNoCoord:
		description = "stops without coordinates"
		action = "Building nodes at (0 0)"
	case WarningNonMonotonicTimes:
		description = "trips whose arrival times decrease along the stop sequence"
		action = "Keeping the rows; derived segment times may be negative"
	case WarningSingleStopService:
		description = "directed services visiting a single stop"
		action = "Creating nodes but no service links"
	case WarningNoHighwayNode:
		description = "bus service nodes with no highway node within range"
		action = "Skipping their access links"
	default:
		description = "unknown issue"
		action = "Continuing with fallback behavior"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("Feed %s has %s (%d occurrences). %s. Examples: %s",
		feedName, description, info.count, action, examplesStr)
}
