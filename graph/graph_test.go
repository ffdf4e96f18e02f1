package graph

import (
	"math"
	"testing"
)

func lonForMeters(m float64) float64 {
	return m / earthRadiusM * 180.0 / math.Pi
}

func TestHaversineM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantM                  float64
		tolM                   float64
	}{
		{name: "same point", lat1: 42.6977, lon1: 23.3219, lat2: 42.6977, lon2: 23.3219, wantM: 0, tolM: 0.001},
		{name: "equator arc", lat1: 0, lon1: 0, lat2: 0, lon2: lonForMeters(1000), wantM: 1000, tolM: 0.01},
		{name: "sofia to plovdiv", lat1: 42.6977, lon1: 23.3219, lat2: 42.1354, lon2: 24.7453, wantM: 133000, tolM: 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantM) > tt.tolM {
				t.Errorf("expected %gm (±%gm), got %gm", tt.wantM, tt.tolM, got)
			}
		})
	}
}

func TestAddStreetEdge(t *testing.T) {
	g := NewGraph()
	g.AddStreetNode(&StreetNode{ID: 1, Lat: 0, Lon: 0})
	g.AddStreetNode(&StreetNode{ID: 2, Lat: 0, Lon: lonForMeters(100)})

	t.Run("explicit length stored both ways", func(t *testing.T) {
		if err := g.AddStreetEdge(1, 2, 140); err != nil {
			t.Fatalf("AddStreetEdge: %v", err)
		}
		if len(g.Adj[1]) != 1 || len(g.Adj[2]) != 1 {
			t.Fatalf("expected both directions, got %d/%d", len(g.Adj[1]), len(g.Adj[2]))
		}
		if g.Adj[1][0].LengthM != 140 || g.Adj[2][0].LengthM != 140 {
			t.Error("edge length not preserved")
		}
	})

	t.Run("missing length computed by haversine", func(t *testing.T) {
		g2 := NewGraph()
		g2.AddStreetNode(&StreetNode{ID: 1, Lat: 0, Lon: 0})
		g2.AddStreetNode(&StreetNode{ID: 2, Lat: 0, Lon: lonForMeters(100)})
		if err := g2.AddStreetEdge(1, 2, 0); err != nil {
			t.Fatalf("AddStreetEdge: %v", err)
		}
		if math.Abs(g2.Adj[1][0].LengthM-100) > 0.01 {
			t.Errorf("expected 100m haversine length, got %g", g2.Adj[1][0].LengthM)
		}
	})

	t.Run("unknown node rejected", func(t *testing.T) {
		if err := g.AddStreetEdge(1, 99, 10); err == nil {
			t.Error("expected an error for an unknown node")
		}
	})
}

func TestLinkStopsToStreets(t *testing.T) {
	g := NewGraph()
	g.AddStop(&Stop{ID: "near", Lat: 0, Lon: 0})
	g.AddStop(&Stop{ID: "far", Lat: 0, Lon: lonForMeters(5000)})
	g.AddStreetNode(&StreetNode{ID: 1, Lat: 0, Lon: lonForMeters(30)})
	g.AddStreetNode(&StreetNode{ID: 2, Lat: 0, Lon: lonForMeters(80)})
	g.BuildIndexes()
	g.LinkStopsToStreets(DefaultSnapDistanceM)

	node, ok := g.StopNode["near"]
	if !ok {
		t.Fatal("stop 'near' should be linked")
	}
	if node != 1 {
		t.Errorf("expected nearest node 1, got %d", node)
	}
	if math.Abs(g.StopSnapM["near"]-30) > 0.01 {
		t.Errorf("expected 30m snap distance, got %g", g.StopSnapM["near"])
	}
	if _, ok := g.StopNode["far"]; ok {
		t.Error("stop 'far' is beyond the snap limit and must stay unlinked")
	}
}

func TestAllStops_SortedByID(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"c", "a", "b"} {
		g.AddStop(&Stop{ID: id})
	}
	got := g.AllStops()
	want := []string{"a", "b", "c"}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], s.ID)
		}
	}
}

func TestForEachStopWithin_MatchesLinearScan(t *testing.T) {
	g := NewGraph()
	// A spread of stops crossing several grid cells.
	coords := [][2]float64{
		{42.6977, 23.3219}, {42.6985, 23.3230}, {42.7050, 23.3300},
		{42.6900, 23.3100}, {42.6979, 23.3221}, {42.7200, 23.3600},
	}
	for i, c := range coords {
		g.AddStop(&Stop{ID: string(rune('a' + i)), Lat: c[0], Lon: c[1]})
	}
	g.BuildIndexes()

	origin := coords[0]
	for _, radius := range []float64{50, 200, 1000, 5000} {
		want := map[string]bool{}
		for _, s := range g.Stops {
			if HaversineM(origin[0], origin[1], s.Lat, s.Lon) <= radius {
				want[s.ID] = true
			}
		}
		got := map[string]bool{}
		g.ForEachStopWithin(origin[0], origin[1], radius, func(s *Stop, d float64) {
			got[s.ID] = true
		})
		if len(got) != len(want) {
			t.Errorf("radius %g: grid found %d stops, linear scan %d", radius, len(got), len(want))
		}
		for id := range want {
			if !got[id] {
				t.Errorf("radius %g: stop %s missed by grid query", radius, id)
			}
		}
	}
}
