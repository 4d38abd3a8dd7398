// Package config loads and validates the YAML application configuration:
// the list of GTFS feeds to convert, output location and format, the
// analysis time window, and the transfer/access link generation bounds.
package config
