package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	lib "github.com/theoremus-urban-solutions/transfer-analyzer"
	"github.com/theoremus-urban-solutions/transfer-analyzer/analyzer"
	"github.com/theoremus-urban-solutions/transfer-analyzer/annotations"
	"github.com/theoremus-urban-solutions/transfer-analyzer/config"
	"github.com/theoremus-urban-solutions/transfer-analyzer/graph"
	"github.com/theoremus-urban-solutions/transfer-analyzer/stations"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve")
	radius := flag.Float64("radius", 0, "direct search radius in meters (overrides config)")
	workers := flag.Int("workers", 0, "analysis worker count (overrides config)")
	report := flag.String("report", "", "Excel report path (oneshot mode; empty for log output only)")
	stationsURL := flag.String("stationsURL", "", "vendor station feed URL (overrides config)")
	flag.Parse()

	_ = godotenv.Load()
	lib.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}

	g, err := graph.LoadFromConfig(config.Config.Graph)
	if err != nil {
		log.Fatalf("graph: %v", err)
	}
	log.Printf("graph loaded: %d stops, %d street nodes", len(g.Stops), len(g.Nodes))

	mergeVendorStations(g, *stationsURL)

	switch *mode {
	case "oneshot":
		radiusM := config.Config.Analyzer.RadiusMeters
		if *radius > 0 {
			radiusM = *radius
		}
		n := config.Config.Analyzer.Workers
		if *workers > 0 {
			n = *workers
		}
		a, err := analyzer.New(radiusM, analyzer.WithWorkers(n))
		if err != nil {
			log.Fatalf("analyzer: %v", err)
		}

		sink := annotations.Sink(annotations.LogSink{})
		var excel *annotations.ExcelReport
		if *report != "" {
			excel = annotations.NewExcelReport()
			sink = annotations.Multi(excel, annotations.LogSink{})
		}
		sum, err := a.Analyze(g, sink)
		if err != nil {
			log.Fatalf("analysis failed: %v", err)
		}
		if excel != nil {
			if err := os.MkdirAll(filepath.Dir(*report), 0755); err != nil {
				log.Fatalf("report: %v", err)
			}
			if err := excel.Save(*report); err != nil {
				log.Fatalf("report: %v", err)
			}
			log.Printf("report written to %s", *report)
		}
		log.Printf("analyzed %d stops: %d too long, %d not found",
			sum.StopsAnalyzed, sum.TooLong, sum.NotFound)
	case "serve":
		srv := lib.StartServer(g)
		srv.HandleGracefulShutdown()
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// mergeVendorStations adds vendor stations to the graph as extra stops so
// the analysis also covers transfers to and from them.
func mergeVendorStations(g *graph.Graph, urlOverride string) {
	url := config.Config.Stations.URL
	if urlOverride != "" {
		url = urlOverride
	}
	if url == "" {
		return
	}
	timeout := time.Duration(config.Config.Stations.TimeoutMS) * time.Millisecond
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	src := stations.NewSource(url, timeout)
	if err := src.Update(); err != nil {
		log.Printf("station feed unavailable, continuing without vendor stations")
		return
	}
	vendor := src.Stations()
	for _, st := range vendor {
		g.AddStop(&graph.Stop{
			ID:   "vendor:" + st.ID,
			Name: st.Name,
			Lat:  st.Lat,
			Lon:  st.Lon,
		})
	}
	g.BuildIndexes()
	g.LinkStopsToStreets(graph.DefaultSnapDistanceM)
	log.Printf("merged %d vendor stations into the graph", len(vendor))
}
