package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	externalParsePath = "data"
	internalParsePath = "stations"
)

// Station is one vendor station record
type Station struct {
	ID              string
	Name            string
	Lat             float64
	Lon             float64
	BikesAvailable  int
	SpacesAvailable int
}

// Source fetches and caches the station list from a vendor feed. The last
// successfully fetched list is kept across failed updates.
type Source struct {
	url    string
	client *http.Client

	mu       sync.Mutex
	stations []Station
}

// NewSource creates a source for the given feed URL or local file path
func NewSource(url string, timeout time.Duration) *Source {
	return &Source{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Update fetches the feed and replaces the cached station list. On failure
// the previous list is kept and the error is returned.
func (s *Source) Update() error {
	data, err := s.fetch()
	if err != nil {
		log.Printf("could not read station feed from %s: %v", s.url, err)
		return err
	}
	parsed, err := parseDocument(data)
	if err != nil {
		log.Printf("could not parse station feed from %s: %v", s.url, err)
		return err
	}
	s.mu.Lock()
	s.stations = parsed
	s.mu.Unlock()
	return nil
}

// Stations returns the most recently fetched station list
func (s *Source) Stations() []Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Station, len(s.stations))
	copy(out, s.stations)
	return out
}

func (s *Source) fetch() ([]byte, error) {
	if !strings.HasPrefix(s.url, "http://") && !strings.HasPrefix(s.url, "https://") {
		return os.ReadFile(s.url)
	}
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, s.url)
	}
	return io.ReadAll(resp.Body)
}

type stationRecord struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
	Activate  any    `json:"activate"`
	DockBikes int    `json:"dock_bikes"`
	FreeBases int    `json:"free_bases"`
}

func parseDocument(data []byte) ([]Station, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, err
	}
	raw, ok := outer[externalParsePath]
	if !ok {
		return nil, fmt.Errorf("could not find JSON element %q", externalParsePath)
	}

	// The vendor wraps the inner document in a JSON-encoded string; accept
	// a plain object as well.
	var inner map[string]json.RawMessage
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &inner); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, err
	}

	rawStations, ok := inner[internalParsePath]
	if !ok {
		return nil, fmt.Errorf("could not find JSON element %q", internalParsePath)
	}
	var records []stationRecord
	if err := json.Unmarshal(rawStations, &records); err != nil {
		return nil, err
	}

	var out []Station
	for _, rec := range records {
		if !isActive(rec.Activate) {
			continue
		}
		var lat, lon float64
		if _, err := fmt.Sscanf(rec.Latitude, "%f", &lat); err != nil {
			continue
		}
		if _, err := fmt.Sscanf(rec.Longitude, "%f", &lon); err != nil {
			continue
		}
		out = append(out, Station{
			ID:              fmt.Sprintf("%d", rec.ID),
			Name:            rec.Name,
			Lat:             lat,
			Lon:             lon,
			BikesAvailable:  rec.DockBikes,
			SpacesAvailable: rec.FreeBases,
		})
	}
	return out, nil
}

// The vendor encodes the active flag inconsistently, sometimes as a number
// and sometimes as a string.
func isActive(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "1"
	case float64:
		return t == 1
	default:
		return false
	}
}
