package graph

import (
	"archive/zip"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/theoremus-urban-solutions/transfer-analyzer/config"
)

func writeTestGTFSZip(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gtfs.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("stops.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte(
		"stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,Central,42.6977,23.3219\n" +
			"S2,Market,42.6985,23.3230\n" +
			"S3,broken,not-a-number,23.0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromConfig(t *testing.T) {
	dir := t.TempDir()
	gtfs := writeTestGTFSZip(t, dir)
	nodes := writeFile(t, dir, "nodes.csv",
		"node_id,lat,lon\n1,42.6977,23.3219\n2,42.6985,23.3230\n")
	edges := writeFile(t, dir, "edges.csv",
		"from_id,to_id,length_m\n1,2,155\n")

	cfg := config.GraphConfig{
		GTFSStaticURL:   gtfs,
		StreetNodesPath: nodes,
		StreetEdgesPath: edges,
	}
	g, err := LoadFromConfig(cfg)
	if err != nil {
		t.Fatalf("LoadFromConfig: %v", err)
	}

	if len(g.Stops) != 2 {
		t.Errorf("expected 2 stops (bad row skipped), got %d", len(g.Stops))
	}
	if g.Stops["S1"] == nil || g.Stops["S1"].Name != "Central" {
		t.Error("stop S1 not loaded correctly")
	}
	if len(g.Nodes) != 2 {
		t.Errorf("expected 2 street nodes, got %d", len(g.Nodes))
	}
	if len(g.Adj[1]) != 1 || g.Adj[1][0].LengthM != 155 {
		t.Error("street edge not loaded correctly")
	}
	if _, ok := g.StopNode["S1"]; !ok {
		t.Error("stops should be linked to streets after loading")
	}
}

func TestLoadFromConfig_UsesCache(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "graph.gob")

	g := NewGraph()
	g.AddStop(&Stop{ID: "cached", Lat: 1, Lon: 2})
	g.BuildIndexes()
	if err := SerializeGraphToFile(g, cache); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromConfig(config.GraphConfig{CachePath: cache})
	if err != nil {
		t.Fatalf("LoadFromConfig: %v", err)
	}
	if got.Stops["cached"] == nil {
		t.Error("expected the cached graph to be used")
	}
}

func TestLoadStreetEdgesCSV_UnknownNode(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "node_id,lat,lon\n1,0,0\n")
	edges := writeFile(t, dir, "edges.csv", "from_id,to_id\n1,42\n")

	g := NewGraph()
	if err := g.loadStreetNodesCSV(nodes); err != nil {
		t.Fatal(err)
	}
	if err := g.loadStreetEdgesCSV(edges); err == nil {
		t.Error("expected an error for an edge referencing an unknown node")
	}
}

func TestLoadStreetEdgesCSV_ComputedLength(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv",
		"node_id,lat,lon\n1,0,0\n2,0,"+strconv.FormatFloat(lonForMeters(200), 'f', -1, 64)+"\n")
	edges := writeFile(t, dir, "edges.csv", "from_id,to_id\n1,2\n")

	g := NewGraph()
	if err := g.loadStreetNodesCSV(nodes); err != nil {
		t.Fatal(err)
	}
	if err := g.loadStreetEdgesCSV(edges); err != nil {
		t.Fatal(err)
	}
	if math.Abs(g.Adj[1][0].LengthM-200) > 0.1 {
		t.Errorf("expected 200m computed length, got %g", g.Adj[1][0].LengthM)
	}
}
