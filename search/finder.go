package search

import (
	"fmt"
	"sort"

	"github.com/theoremus-urban-solutions/transfer-analyzer/graph"
)

// StopAtDistance is one nearby stop together with the measured distance from
// the search origin
type StopAtDistance struct {
	Stop      *graph.Stop
	DistanceM float64
}

// NearbyStopFinder locates stops around an origin within a fixed radius.
// With useStreets false the distance is the straight-line haversine distance;
// with useStreets true it is the length of the shortest street path between
// the stops' linked street nodes, plus the snap distances at both ends.
type NearbyStopFinder struct {
	g          *graph.Graph
	radiusM    float64
	useStreets bool

	nodeStops map[int64][]*graph.Stop
}

// NewNearbyStopFinder creates a finder for one graph, radius and mode
func NewNearbyStopFinder(g *graph.Graph, radiusMeters float64, useStreets bool) *NearbyStopFinder {
	return &NearbyStopFinder{g: g, radiusM: radiusMeters, useStreets: useStreets}
}

// FindNearbyStops returns every stop within the finder's radius of the
// origin, including the origin itself. Results are ordered by distance.
func (f *NearbyStopFinder) FindNearbyStops(origin *graph.Stop) ([]StopAtDistance, error) {
	if f.g == nil {
		return nil, fmt.Errorf("nearby stop search: no graph")
	}
	if origin == nil {
		return nil, fmt.Errorf("nearby stop search: no origin stop")
	}
	if f.g.GetStop(origin.ID) == nil {
		return nil, fmt.Errorf("nearby stop search: stop %q is not in the graph", origin.ID)
	}

	var out []StopAtDistance
	if f.useStreets {
		out = f.findViaStreets(origin)
	} else {
		f.g.ForEachStopWithin(origin.Lat, origin.Lon, f.radiusM, func(s *graph.Stop, d float64) {
			out = append(out, StopAtDistance{Stop: s, DistanceM: d})
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceM != out[j].DistanceM {
			return out[i].DistanceM < out[j].DistanceM
		}
		return out[i].Stop.ID < out[j].Stop.ID
	})
	return out, nil
}

func (f *NearbyStopFinder) findViaStreets(origin *graph.Stop) []StopAtDistance {
	originNode, ok := f.g.StopNode[origin.ID]
	if !ok {
		// Stop is not linked to the street network
		return nil
	}
	originSnap := f.g.StopSnapM[origin.ID]
	budget := f.radiusM - originSnap
	if budget < 0 {
		return nil
	}

	if f.nodeStops == nil {
		f.nodeStops = map[int64][]*graph.Stop{}
		for stopID, node := range f.g.StopNode {
			f.nodeStops[node] = append(f.nodeStops[node], f.g.GetStop(stopID))
		}
	}

	settled := f.dijkstra(originNode, budget)

	var out []StopAtDistance
	for node, pathM := range settled {
		for _, s := range f.nodeStops[node] {
			total := originSnap + pathM + f.g.StopSnapM[s.ID]
			if total <= f.radiusM {
				out = append(out, StopAtDistance{Stop: s, DistanceM: total})
			}
		}
	}
	return out
}

// dijkstra runs a cost-bounded shortest path search over the street
// adjacency and returns the settled nodes with their path distances.
func (f *NearbyStopFinder) dijkstra(source int64, maxCostM float64) map[int64]float64 {
	dist := map[int64]float64{source: 0}
	settled := map[int64]float64{}

	pq := &nodeQueue{{node: source, costM: 0}}
	for pq.Len() > 0 {
		cur := pq.pop()
		if _, done := settled[cur.node]; done {
			continue
		}
		settled[cur.node] = cur.costM
		for _, e := range f.g.Adj[cur.node] {
			next := cur.costM + e.LengthM
			if next > maxCostM {
				continue
			}
			if d, seen := dist[e.To]; seen && d <= next {
				continue
			}
			dist[e.To] = next
			pq.push(nodeCost{node: e.To, costM: next})
		}
	}
	return settled
}
