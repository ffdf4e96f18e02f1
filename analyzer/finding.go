package analyzer

import "github.com/theoremus-urban-solutions/transfer-analyzer/graph"

// TooLongFinding reports a stop pair reachable both directly and via streets
// whose street routing distance is unusually long compared to the direct
// distance
type TooLongFinding struct {
	Origin      *graph.Stop
	Destination *graph.Stop
	DirectM     float64
	StreetM     float64
	Ratio       float64
}

// NotFoundFinding reports a stop pair within direct reach for which no
// street path was found
type NotFoundFinding struct {
	Origin      *graph.Stop
	Destination *graph.Stop
	DirectM     float64
}

// newTooLongFinding computes the street-to-direct ratio. Coincident stops
// have a direct distance of zero; their ratio is defined as zero so that
// they never produce a spurious finding.
func newTooLongFinding(origin, dest *graph.Stop, directM, streetM float64) TooLongFinding {
	ratio := 0.0
	if directM != 0 {
		ratio = streetM / directM
	}
	return TooLongFinding{
		Origin:      origin,
		Destination: dest,
		DirectM:     directM,
		StreetM:     streetM,
		Ratio:       ratio,
	}
}
