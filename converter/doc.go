/*
Package converter is the main entry point for GTFS to GMNS conversion.

The pipeline works in three stages:

  - BuildTimetable joins one feed's trips, routes, stop_times and stops
    into directed timetable records, restricted to trips whose earliest
    arrival lies inside the analysis window. Direction ids are remapped
    (0/1 to 2/1), terminal flags set, and each distinct stop pattern of a
    directed route gets a sequential label, producing the directed
    service ids that identify stop patterns throughout the network.

  - Converter.AddTimetable turns the records into GMNS rows: one
    physical node per stop, one service node per (service pattern, stop),
    service links along each pattern's representative trip, and boarding
    links whose inbound travel time is half the service headway.

  - Converter.Finalize creates bidirectional walking transfer links
    between nearby physical nodes of different routes over the combined
    multi-feed node set, and deduplicates the link table.

AddAccessLinks optionally attaches bus service nodes to an external
highway network's nearest nodes.

Typical usage:

	conv, _ := converter.NewConverter(config.Config)
	for _, feedCfg := range feeds {
	    feed, _ := gtfs.Load(feedCfg.Path)
	    conv.AddFeed(feed)
	}
	conv.Finalize()
	// conv.Nodes and conv.Links hold the GMNS tables

Converter instances are not safe for concurrent use. Build timetables in
parallel with BuildTimetable if needed, then add them in a fixed order so
node and link ids stay deterministic.
*/
package converter
