package converter

import (
	"fmt"
	"log"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/config"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-to-gmns/utils"
)

// Node id bases. Physical (station) nodes count up from the first,
// service nodes from the second, and both counters are shared across
// feeds so ids never collide in multi-agency runs.
const (
	physicalNodeBase = 1000000
	serviceNodeBase  = 1500000
	linkIDBase       = 1000000
)

// Converter accumulates the GMNS network across one or more GTFS feeds.
// Feeds are added one at a time; Finalize generates the cross-feed
// transfer links and deduplicates the link table.
type Converter struct {
	Cfg   config.AppConfig
	Warns *WarningAggregator

	WindowStart int
	WindowEnd   int

	Nodes []gmns.Node
	Links []gmns.Link

	// Timetables keeps each feed's directed timetable for the analysis
	// helpers.
	Timetables []*Timetable

	nextPhysicalID int
	nextServiceID  int
	nextLinkID     int

	finalized bool
}

// NewConverter creates a converter for the configured time window.
func NewConverter(cfg config.AppConfig) (*Converter, error) {
	start, end, err := utils.ParseTimeWindow(cfg.Conversion.TimeWindow)
	if err != nil {
		return nil, err
	}
	return &Converter{
		Cfg:            cfg,
		Warns:          NewWarningAggregator(),
		WindowStart:    start,
		WindowEnd:      end,
		nextPhysicalID: physicalNodeBase,
		nextServiceID:  serviceNodeBase,
		nextLinkID:     linkIDBase,
	}, nil
}

// AddFeed builds the feed's directed timetable and appends its nodes,
// service links and boarding links to the network.
func (c *Converter) AddFeed(f *gtfs.Feed) (*Timetable, error) {
	tt := BuildTimetable(f, c.WindowStart, c.WindowEnd, c.Warns)
	if err := c.AddTimetable(tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// AddTimetable appends a prebuilt timetable (see BuildTimetable) to the
// network. Useful when timetables for several feeds are built
// concurrently and then assembled in a deterministic order.
func (c *Converter) AddTimetable(tt *Timetable) error {
	if c.finalized {
		return fmt.Errorf("converter already finalized")
	}
	if len(tt.Records) == 0 {
		log.Printf("feed %s: no trips inside window %s, nothing to add", tt.AgencyName, c.Cfg.Conversion.TimeWindow)
		c.Timetables = append(c.Timetables, tt)
		return nil
	}

	nodeStart := len(c.Nodes)
	physByStop, svcByName := c.addNodes(tt)
	serviceLinks := c.addServiceLinks(tt, svcByName)
	boardingLinks := c.addBoardingLinks(tt, c.Nodes[nodeStart:], physByStop)

	log.Printf("feed %s: %d timetable records, %d nodes, %d service links, %d boarding links",
		tt.AgencyName, len(tt.Records), len(c.Nodes)-nodeStart, serviceLinks, boardingLinks)

	c.Timetables = append(c.Timetables, tt)
	return nil
}

// Finalize creates the transfer links over the combined physical node set
// and deduplicates the link table on (from_node_id, to_node_id), keeping
// the last occurrence.
func (c *Converter) Finalize() error {
	if c.finalized {
		return fmt.Errorf("converter already finalized")
	}
	c.finalized = true

	transfers := c.addTransferLinks()
	before := len(c.Links)
	c.Links = dedupeLinks(c.Links)
	log.Printf("network finalized: %d nodes, %d links (%d transfer links, %d duplicates removed)",
		len(c.Nodes), len(c.Links), transfers, before-len(c.Links))
	return nil
}

// newLinkID hands out link ids from a single monotonic counter, so ids
// stay unique across service, boarding, transfer and access batches.
func (c *Converter) newLinkID() int {
	c.nextLinkID++
	return c.nextLinkID
}

// dedupeLinks drops earlier duplicates of (from, to) pairs, preserving the
// position of each pair's last occurrence.
func dedupeLinks(links []gmns.Link) []gmns.Link {
	seen := make(map[[2]int]struct{}, len(links))
	out := make([]gmns.Link, 0, len(links))
	for i := len(links) - 1; i >= 0; i-- {
		key := [2]int{links[i].FromNodeID, links[i].ToNodeID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, links[i])
	}
	// restore forward order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
