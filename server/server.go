package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/forestwatch-org/forestwatch/engine"
	"github.com/forestwatch-org/forestwatch/ingest"
)

// ============================================================================
// DASHBOARD API — HTTP Boundary for the Browser Frontend
// ============================================================================
// Holds exactly one in-memory dataset: the most recent successful upload.
// There is no persistence and no per-user isolation — the dashboard is a
// single-session tool. Every GET recomputes its payload from the retained
// records plus the request's filter criteria; nothing is cached or
// incrementally patched.
// ============================================================================

// Server is the dashboard API. Safe for concurrent requests: the dataset
// is guarded by a read/write mutex and records are immutable once stored.
type Server struct {
	log     zerolog.Logger
	rules   ingest.Rules
	refYear int

	mu       sync.RWMutex
	records  []engine.Record
	source   string
	loadedAt time.Time
}

// New creates a Server. referenceYear is the upper bound for valid record
// years, normally the current calendar year.
func New(log zerolog.Logger, rules ingest.Rules, referenceYear int) *Server {
	return &Server{
		log:     log,
		rules:   rules,
		refYear: referenceYear,
	}
}

// Router builds the gin engine with all dashboard routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	api.POST("/dataset", s.handleUpload)
	api.DELETE("/dataset", s.handleReset)
	api.GET("/records", s.handleRecords)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/buckets", s.handleBuckets)
	api.GET("/benchmarks", s.handleBenchmarks)
	api.GET("/projections", s.handleProjections)
	api.GET("/summary", s.handleSummary)
	return router
}

// store replaces the retained dataset.
func (s *Server) store(records []engine.Record, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.source = source
	s.loadedAt = time.Now()
}

// reset drops the retained dataset.
func (s *Server) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.source = ""
	s.loadedAt = time.Time{}
}

// snapshot returns the retained records with criteria applied, or ok=false
// when no dataset has been uploaded yet. The returned slice shares backing
// storage with the dataset; records are never mutated after storage.
func (s *Server) snapshot(c engine.Criteria) ([]engine.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return nil, false
	}
	return engine.Apply(s.records, c), true
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
