// Package realtime reads GTFS-RT VehiclePositions feeds and snaps the
// observed vehicles onto the static feed's stop sequences, so converted
// networks can be checked against live operations.
package realtime
