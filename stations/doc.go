// Package stations polls a vendor JSON feed of shared-mobility stations.
//
// The vendor document wraps the station list in two fixed path segments:
// the top-level "data" element holds a JSON-encoded string whose "stations"
// array contains the station records. Inactive records are skipped.
package stations
