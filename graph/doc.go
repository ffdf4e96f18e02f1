// Package graph holds the in-memory transit/street network used by the
// transfer analyzer.
//
// It contains:
//   - Transit stops loaded from a GTFS static feed
//   - A street network (nodes and undirected edges) loaded from CSV files
//   - Grid-based spatial indexes for radius queries
//   - Stop-to-street linking used by the street-routed nearby search
//   - Gob serialization for disk-based caching of a built graph
package graph
