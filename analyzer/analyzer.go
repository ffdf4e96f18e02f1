package analyzer

import (
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/transfer-analyzer/annotations"
	"github.com/theoremus-urban-solutions/transfer-analyzer/graph"
	"github.com/theoremus-urban-solutions/transfer-analyzer/search"
)

const (
	// The street search casts a wider net than the direct search: a
	// legitimate street path may be much longer than the straight line.
	radiusMultiplier = 5

	minRatioToLog          = 2
	minStreetDistanceToLog = 100

	progressLogInterval = 1000
)

// Summary reports aggregate counts for one completed analysis pass
type Summary struct {
	StopsAnalyzed int `json:"stops_analyzed"`
	TooLong       int `json:"too_long"`
	NotFound      int `json:"not_found"`
}

// DirectTransferAnalyzer runs the transfer quality analysis pass. It reads
// the graph and emits ranked findings to an annotation sink; the graph is
// never mutated.
type DirectTransferAnalyzer struct {
	radiusM float64
	workers int
}

// Option configures a DirectTransferAnalyzer
type Option func(*DirectTransferAnalyzer)

// WithWorkers sets the number of goroutines analyzing origin stops. Values
// below one fall back to the sequential pass.
func WithWorkers(n int) Option {
	return func(a *DirectTransferAnalyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// New creates an analyzer for the given direct search radius in meters.
// The street search radius is derived from it.
func New(radiusMeters float64, opts ...Option) (*DirectTransferAnalyzer, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("analyzer: radiusMeters must be positive, got %g", radiusMeters)
	}
	a := &DirectTransferAnalyzer{radiusM: radiusMeters, workers: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type accumulator struct {
	tooLong  []TooLongFinding
	notFound []NotFoundFinding
}

// Analyze runs the full pass over every stop of the graph and emits the
// ranked findings to sink. A failure from the graph or the nearby search
// aborts the pass before anything is emitted: a report covering an
// inconsistent subset of stops is worse than no report.
func (a *DirectTransferAnalyzer) Analyze(g *graph.Graph, sink annotations.Sink) (Summary, error) {
	if g == nil {
		return Summary{}, fmt.Errorf("analyzer: no graph")
	}

	log.Printf("Analyzing transfers (this can be time consuming)...")

	g.EnsureIndexes()
	stops := g.AllStops()
	chunks := splitChunks(len(stops), a.workers)
	accs := make([]accumulator, len(chunks))

	var analyzed int64
	var eg errgroup.Group
	for i, c := range chunks {
		i, c := i, c
		eg.Go(func() error {
			euclidean := search.NewNearbyStopFinder(g, a.radiusM, false)
			streets := search.NewNearbyStopFinder(g, a.radiusM*radiusMultiplier, true)
			for _, origin := range stops[c.start:c.end] {
				if n := atomic.AddInt64(&analyzed, 1); n%progressLogInterval == 0 {
					log.Printf("%d stops analyzed", n)
				}
				if err := a.analyzeOrigin(origin, euclidean, streets, &accs[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Summary{}, err
	}

	// Merge in chunk order so the stable sorts below are deterministic
	// for a fixed worker count.
	var tooLong []TooLongFinding
	var notFound []NotFoundFinding
	for _, acc := range accs {
		tooLong = append(tooLong, acc.tooLong...)
		notFound = append(notFound, acc.notFound...)
	}

	// Worst offenders first
	sort.SliceStable(tooLong, func(i, j int) bool { return tooLong[i].Ratio > tooLong[j].Ratio })
	// Closest, most suspicious misses first
	sort.SliceStable(notFound, func(i, j int) bool { return notFound[i].DirectM < notFound[j].DirectM })

	for _, f := range tooLong {
		sink.ReportRoutingTooLong(f.Origin, f.Destination, f.DirectM, f.StreetM, f.Ratio)
	}
	for _, f := range notFound {
		sink.ReportCouldNotBeRouted(f.Origin, f.Destination, f.DirectM)
	}

	log.Printf("Done analyzing transfers. %d transfers could not be routed and %d transfers had a too long routing distance.",
		len(notFound), len(tooLong))

	return Summary{StopsAnalyzed: len(stops), TooLong: len(tooLong), NotFound: len(notFound)}, nil
}

// analyzeOrigin runs the two searches for one origin, reconciles the result
// sets and appends the kept findings to acc.
func (a *DirectTransferAnalyzer) analyzeOrigin(origin *graph.Stop, euclidean, streets *search.NearbyStopFinder, acc *accumulator) error {
	direct, err := euclidean.FindNearbyStops(origin)
	if err != nil {
		return err
	}
	routed, err := streets.FindNearbyStops(origin)
	if err != nil {
		return err
	}

	streetDist := make(map[string]float64, len(routed))
	for _, r := range routed {
		streetDist[r.Stop.ID] = r.DistanceM
	}

	for _, d := range direct {
		if d.Stop.ID == origin.ID {
			continue
		}
		streetM, connected := streetDist[d.Stop.ID]
		if !connected {
			acc.notFound = append(acc.notFound, NotFoundFinding{
				Origin:      origin,
				Destination: d.Stop,
				DirectM:     d.DistanceM,
			})
			continue
		}
		f := newTooLongFinding(origin, d.Stop, d.DistanceM, streetM)
		if f.Ratio > minRatioToLog && f.StreetM > minStreetDistanceToLog {
			acc.tooLong = append(acc.tooLong, f)
		}
	}
	return nil
}

type chunk struct {
	start int
	end   int
}

// splitChunks divides n items into at most workers contiguous chunks
func splitChunks(n, workers int) []chunk {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	var out []chunk
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, chunk{start: start, end: end})
	}
	return out
}
