package graph

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// SerializeGraph encodes a Graph to bytes using gob encoding. This is used
// for disk-based caching to avoid re-parsing GTFS and street CSV data.
//
// Thread safety: safe for concurrent use once the graph is fully constructed.
func SerializeGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeGraph decodes a Graph from bytes using gob encoding. The spatial
// indexes are rebuilt since they are not part of the encoded form.
func DeserializeGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	g.BuildIndexes()
	return &g, nil
}

// SerializeGraphToFile writes a Graph to a file using gob encoding
func SerializeGraphToFile(g *Graph, filepath string) error {
	data, err := SerializeGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// DeserializeGraphFromFile reads a Graph from a file using gob encoding.
// Treat an error as a cache miss and rebuild from the original sources.
func DeserializeGraphFromFile(filepath string) (*Graph, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeGraph(data)
}
