package graph

import (
	"fmt"
	"sort"
)

// DefaultSnapDistanceM is the maximum distance a stop may be from the street
// network to be considered linked to it.
const DefaultSnapDistanceM = 500.0

const defaultCellDeg = 0.005

// Stop is a transit stop vertex. Analysis code references stops by pointer
// and never mutates them.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// StreetNode is a vertex of the street network
type StreetNode struct {
	ID  int64
	Lat float64
	Lon float64
}

// StreetEdge is one directed half of an undirected street segment
type StreetEdge struct {
	To      int64
	LengthM float64
}

// Graph stores transit stops, the street network and the spatial indexes
// needed for nearby-stop queries
type Graph struct {
	Stops map[string]*Stop
	Nodes map[int64]*StreetNode
	Adj   map[int64][]StreetEdge

	// StopNode maps a stop to its nearest street node, StopSnapM to the
	// distance of that link. Stops too far from any street are absent.
	StopNode  map[string]int64
	StopSnapM map[string]float64

	stopGrid *grid[*Stop]
	nodeGrid *grid[*StreetNode]
}

// NewGraph creates a new empty graph
func NewGraph() *Graph {
	return &Graph{
		Stops:     map[string]*Stop{},
		Nodes:     map[int64]*StreetNode{},
		Adj:       map[int64][]StreetEdge{},
		StopNode:  map[string]int64{},
		StopSnapM: map[string]float64{},
	}
}

// AddStop registers a transit stop, replacing any stop with the same ID
func (g *Graph) AddStop(s *Stop) {
	g.Stops[s.ID] = s
	g.stopGrid = nil
}

// AddStreetNode registers a street vertex
func (g *Graph) AddStreetNode(n *StreetNode) {
	g.Nodes[n.ID] = n
	g.nodeGrid = nil
}

// AddStreetEdge connects two street nodes in both directions. A non-positive
// length is replaced by the haversine distance between the nodes.
func (g *Graph) AddStreetEdge(from, to int64, lengthM float64) error {
	a, ok := g.Nodes[from]
	if !ok {
		return fmt.Errorf("street edge references unknown node %d", from)
	}
	b, ok := g.Nodes[to]
	if !ok {
		return fmt.Errorf("street edge references unknown node %d", to)
	}
	if lengthM <= 0 {
		lengthM = HaversineM(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	g.Adj[from] = append(g.Adj[from], StreetEdge{To: to, LengthM: lengthM})
	g.Adj[to] = append(g.Adj[to], StreetEdge{To: from, LengthM: lengthM})
	return nil
}

// BuildIndexes (re)builds the spatial indexes. Loaders call this once after
// ingesting data; it must be called again after adding stops or nodes.
func (g *Graph) BuildIndexes() {
	sg := newGrid[*Stop](defaultCellDeg)
	for _, s := range g.Stops {
		sg.insert(s.Lat, s.Lon, s)
	}
	g.stopGrid = sg

	ng := newGrid[*StreetNode](defaultCellDeg)
	for _, n := range g.Nodes {
		ng.insert(n.Lat, n.Lon, n)
	}
	g.nodeGrid = ng
}

// EnsureIndexes builds the spatial indexes when they have not been built
// yet. Callers running concurrent queries must call this first; the query
// methods themselves are read-only once the indexes exist.
func (g *Graph) EnsureIndexes() {
	if g.stopGrid == nil || g.nodeGrid == nil {
		g.BuildIndexes()
	}
}

// AllStops returns every transit stop ordered by ID
func (g *Graph) AllStops() []*Stop {
	out := make([]*Stop, 0, len(g.Stops))
	for _, s := range g.Stops {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetStop returns the stop with the given ID, or nil
func (g *Graph) GetStop(id string) *Stop { return g.Stops[id] }

// ForEachStopWithin visits every stop within radiusM meters of a point,
// including coincident stops at distance zero
func (g *Graph) ForEachStopWithin(lat, lon, radiusM float64, visit func(s *Stop, distM float64)) {
	g.EnsureIndexes()
	g.stopGrid.near(lat, lon, radiusM, visit)
}

// NearestStreetNode returns the closest street node within maxM meters of a
// point and its distance. ok is false when no node qualifies.
func (g *Graph) NearestStreetNode(lat, lon, maxM float64) (id int64, distM float64, ok bool) {
	g.EnsureIndexes()
	best := maxM
	g.nodeGrid.near(lat, lon, maxM, func(n *StreetNode, d float64) {
		if !ok || d < best {
			best = d
			id = n.ID
			ok = true
		}
	})
	return id, best, ok
}

// LinkStopsToStreets computes the nearest street node for every stop within
// the snap limit. Existing links are recomputed.
func (g *Graph) LinkStopsToStreets(maxSnapM float64) {
	if maxSnapM <= 0 {
		maxSnapM = DefaultSnapDistanceM
	}
	g.StopNode = map[string]int64{}
	g.StopSnapM = map[string]float64{}
	for id, s := range g.Stops {
		if node, d, ok := g.NearestStreetNode(s.Lat, s.Lon, maxSnapM); ok {
			g.StopNode[id] = node
			g.StopSnapM[id] = d
		}
	}
}
