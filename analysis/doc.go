// Package analysis derives reporting tables from a converted network:
// service frequencies and headways, scheduled segment and route speeds,
// per-trip space-time trajectories, and time-budget accessibility per
// station. All functions are pure reads over the converter's output.
package analysis
