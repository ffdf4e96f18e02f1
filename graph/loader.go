package graph

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/transfer-analyzer/config"
)

// LoadFromConfig builds a graph from the configured sources. When a cache
// path is set and readable the cached graph is used instead of re-parsing;
// a freshly built graph is written back to the cache path.
func LoadFromConfig(cfg config.GraphConfig) (*Graph, error) {
	if cfg.CachePath != "" {
		if g, err := DeserializeGraphFromFile(cfg.CachePath); err == nil {
			log.Printf("loaded graph from cache %s (%d stops, %d street nodes)",
				cfg.CachePath, len(g.Stops), len(g.Nodes))
			return g, nil
		}
	}

	g := NewGraph()
	if cfg.GTFSStaticURL != "" {
		if err := g.loadStopsFromStaticZip(cfg.GTFSStaticURL); err != nil {
			return nil, fmt.Errorf("gtfs static: %w", err)
		}
	}
	if cfg.StreetNodesPath != "" {
		if err := g.loadStreetNodesCSV(cfg.StreetNodesPath); err != nil {
			return nil, fmt.Errorf("street nodes: %w", err)
		}
	}
	if cfg.StreetEdgesPath != "" {
		if err := g.loadStreetEdgesCSV(cfg.StreetEdgesPath); err != nil {
			return nil, fmt.Errorf("street edges: %w", err)
		}
	}
	g.BuildIndexes()
	g.LinkStopsToStreets(DefaultSnapDistanceM)

	if cfg.CachePath != "" {
		if err := SerializeGraphToFile(g, cfg.CachePath); err != nil {
			log.Printf("could not write graph cache %s: %v", cfg.CachePath, err)
		}
	}
	return g, nil
}

// loadStopsFromStaticZip downloads (or opens) a GTFS static zip and ingests
// stops.txt. Other GTFS files are not needed for transfer analysis.
func (g *Graph) loadStopsFromStaticZip(urlOrPath string) error {
	path := urlOrPath
	if strings.HasPrefix(urlOrPath, "http://") || strings.HasPrefix(urlOrPath, "https://") {
		resp, err := http.Get(urlOrPath)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
		}
		tmp, err := os.CreateTemp("", "gtfs-*.zip")
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, resp.Body); err != nil {
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		path = tmp.Name()
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == "stops.txt" {
			if err := g.consumeStopsCSV(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) consumeStopsCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	rec, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	sID := idx("stop_id")
	sN := idx("stop_name")
	sLat := idx("stop_lat")
	sLon := idx("stop_lon")
	if sID < 0 || sLat < 0 || sLon < 0 {
		return fmt.Errorf("stops.txt is missing required columns")
	}
	for _, row := range rec[1:] {
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[sLat]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[sLon]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		name := ""
		if sN >= 0 && sN < len(row) {
			name = row[sN]
		}
		g.AddStop(&Stop{ID: row[sID], Name: name, Lat: lat, Lon: lon})
	}
	return nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}

func columnIndex(head []string, col string) int {
	for i, h := range head {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return i
		}
	}
	return -1
}

// loadStreetNodesCSV ingests a street node CSV with columns node_id, lat, lon
func (g *Graph) loadStreetNodesCSV(path string) error {
	rec, err := readCSVFile(path)
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	nID := columnIndex(rec[0], "node_id")
	nLat := columnIndex(rec[0], "lat")
	nLon := columnIndex(rec[0], "lon")
	if nID < 0 || nLat < 0 || nLon < 0 {
		return fmt.Errorf("%s is missing required columns", path)
	}
	for _, row := range rec[1:] {
		id, err := strconv.ParseInt(strings.TrimSpace(row[nID]), 10, 64)
		if err != nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[nLat]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[nLon]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		g.AddStreetNode(&StreetNode{ID: id, Lat: lat, Lon: lon})
	}
	return nil
}

// loadStreetEdgesCSV ingests a street edge CSV with columns from_id, to_id
// and an optional length_m. Edges referencing unknown nodes are rejected.
func (g *Graph) loadStreetEdgesCSV(path string) error {
	rec, err := readCSVFile(path)
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	eFrom := columnIndex(rec[0], "from_id")
	eTo := columnIndex(rec[0], "to_id")
	eLen := columnIndex(rec[0], "length_m")
	if eFrom < 0 || eTo < 0 {
		return fmt.Errorf("%s is missing required columns", path)
	}
	for _, row := range rec[1:] {
		from, err1 := strconv.ParseInt(strings.TrimSpace(row[eFrom]), 10, 64)
		to, err2 := strconv.ParseInt(strings.TrimSpace(row[eTo]), 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		length := 0.0
		if eLen >= 0 && eLen < len(row) {
			length, _ = strconv.ParseFloat(strings.TrimSpace(row[eLen]), 64)
		}
		if err := g.AddStreetEdge(from, to, length); err != nil {
			return err
		}
	}
	return nil
}
