package annotations

import (
	"log"

	"github.com/theoremus-urban-solutions/transfer-analyzer/graph"
)

// Sink receives typed findings from an analysis pass. Calls are
// fire-and-forget; sinks must not fail the analysis.
type Sink interface {
	ReportRoutingTooLong(origin, dest *graph.Stop, directM, streetM, ratio float64)
	ReportCouldNotBeRouted(origin, dest *graph.Stop, directM float64)
}

// LogSink writes findings to the process log
type LogSink struct{}

func (LogSink) ReportRoutingTooLong(origin, dest *graph.Stop, directM, streetM, ratio float64) {
	log.Printf("routing distance too long: %s -> %s direct %.0fm street %.0fm ratio %.2f",
		origin.ID, dest.ID, directM, streetM, ratio)
}

func (LogSink) ReportCouldNotBeRouted(origin, dest *graph.Stop, directM float64) {
	log.Printf("transfer could not be routed: %s -> %s direct %.0fm", origin.ID, dest.ID, directM)
}

// TooLongRecord is a collected routing-distance-too-long finding
type TooLongRecord struct {
	OriginID string
	DestID   string
	DirectM  float64
	StreetM  float64
	Ratio    float64
}

// NotFoundRecord is a collected could-not-be-routed finding
type NotFoundRecord struct {
	OriginID string
	DestID   string
	DirectM  float64
}

// Collector retains findings in memory in emission order. It is used by
// tests and by the HTTP API to build report payloads.
type Collector struct {
	TooLong  []TooLongRecord
	NotFound []NotFoundRecord
}

func (c *Collector) ReportRoutingTooLong(origin, dest *graph.Stop, directM, streetM, ratio float64) {
	c.TooLong = append(c.TooLong, TooLongRecord{
		OriginID: origin.ID,
		DestID:   dest.ID,
		DirectM:  directM,
		StreetM:  streetM,
		Ratio:    ratio,
	})
}

func (c *Collector) ReportCouldNotBeRouted(origin, dest *graph.Stop, directM float64) {
	c.NotFound = append(c.NotFound, NotFoundRecord{
		OriginID: origin.ID,
		DestID:   dest.ID,
		DirectM:  directM,
	})
}

type multiSink []Sink

func (m multiSink) ReportRoutingTooLong(origin, dest *graph.Stop, directM, streetM, ratio float64) {
	for _, s := range m {
		s.ReportRoutingTooLong(origin, dest, directM, streetM, ratio)
	}
}

func (m multiSink) ReportCouldNotBeRouted(origin, dest *graph.Stop, directM float64) {
	for _, s := range m {
		s.ReportCouldNotBeRouted(origin, dest, directM)
	}
}

// Multi fans findings out to several sinks in order
func Multi(sinks ...Sink) Sink { return multiSink(sinks) }
