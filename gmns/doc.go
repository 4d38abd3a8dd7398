// Package gmns defines the GMNS (General Modeling Network Specification)
// node and link table rows produced by the converter, their CSV column
// orders, WKT geometry rendering, and the GTFS route_type to mode/node
// type mappings.
package gmns
