// Package utils provides shared distance and time helpers: haversine
// distances in several units, GTFS clock parsing (including past-midnight
// hours), and analysis time-window parsing.
package utils
