// Package exporter writes converted networks and analysis reports to CSV
// files or to a SQLite database. CSV writers never overwrite existing
// files; the SQLite writer tags each export with a run id so one database
// can hold several conversions.
package exporter
