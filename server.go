package transferanalyzer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theoremus-urban-solutions/transfer-analyzer/analyzer"
	"github.com/theoremus-urban-solutions/transfer-analyzer/annotations"
	"github.com/theoremus-urban-solutions/transfer-analyzer/config"
	"github.com/theoremus-urban-solutions/transfer-analyzer/graph"
)

// Server exposes analysis runs over HTTP: launch a pass, poll its status
// and download the Excel report once it is done.
type Server struct {
	g    *graph.Graph
	jobs *jobStore
	http *http.Server
}

type launchRequest struct {
	RadiusMeters float64 `json:"radiusMeters"`
	Workers      int     `json:"workers"`
}

// StartServer starts the HTTP API for the given graph in a background
// goroutine
func StartServer(g *graph.Graph) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{g: g, jobs: newJobStore()}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/api/health", s.handleHealth)
	r.POST("/api/analysis", s.handleLaunch)
	r.GET("/api/analysis/:id", s.handleStatus)
	r.GET("/api/analysis/:id/report", s.handleReport)

	addr := fmt.Sprintf(":%d", config.Config.Server.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
	return s
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM and drains the server
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stops":  len(s.g.Stops),
	})
}

func (s *Server) handleLaunch(c *gin.Context) {
	req := launchRequest{
		RadiusMeters: config.Config.Analyzer.RadiusMeters,
		Workers:      config.Config.Analyzer.Workers,
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	a, err := analyzer.New(req.RadiusMeters, analyzer.WithWorkers(req.Workers))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := newJob()
	s.jobs.add(job)

	go func() {
		report := annotations.NewExcelReport()
		sum, err := a.Analyze(s.g, annotations.Multi(report, annotations.LogSink{}))
		if err != nil {
			job.fail(err)
			return
		}
		outDir := config.Config.Report.OutputDir
		if err := os.MkdirAll(outDir, 0755); err != nil {
			job.fail(err)
			return
		}
		path := filepath.Join(outDir, fmt.Sprintf("transfer-report-%s.xlsx", job.ID))
		if err := report.Save(path); err != nil {
			job.fail(err)
			return
		}
		job.finish(sum, path)
	}()

	c.JSON(http.StatusAccepted, job.view())
}

func (s *Server) handleStatus(c *gin.Context) {
	job := s.jobs.get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown analysis id"})
		return
	}
	c.JSON(http.StatusOK, job.view())
}

func (s *Server) handleReport(c *gin.Context) {
	job := s.jobs.get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown analysis id"})
		return
	}
	path, ok := job.report()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "report not ready"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
