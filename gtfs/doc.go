/*
Package gtfs provides GTFS static feed loading and indexing.

A feed is read either from a directory of .txt files or from a .zip
archive. The five required files (agency.txt, stops.txt, routes.txt,
trips.txt, stop_times.txt) must all be present; shapes.txt is consumed
when available. CSV columns are located by header name, so column order
and unknown columns do not matter.

# Basic Usage

	feed, err := gtfs.Load("feeds/phoenix")
	if err != nil {
	    log.Fatal(err)
	}

	route := feed.RouteByID("R1")
	stopTimes := feed.StopTimesForTrip("T100")

# Data cleaning

Loading applies the same cleanup the conversion pipeline expects:

  - stop_time rows with a blank arrival or departure time are dropped
  - GTFS clock strings convert to minutes from midnight; hours past 24
    keep accumulating for past-midnight service
  - surrounding quotes on route_id are stripped when routes.txt and
    trips.txt disagree about quoting

Parse a feed once and keep it in memory: all lookups afterwards are map
reads.
*/
package gtfs
