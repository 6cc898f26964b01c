package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forestwatch-org/forestwatch/decode"
	"github.com/forestwatch-org/forestwatch/engine"
	"github.com/forestwatch-org/forestwatch/ingest"
)

// ============================================================================
// HANDLERS
// ============================================================================
// Error contract for the frontend:
//   415 — unrecognized file format (decode.ErrUnsupportedFormat, verbatim)
//   422 — file decoded but zero records survived cleaning (ingest.ErrNoData)
//   413 — upload larger than maxUploadBytes
//   404 — a GET before any dataset was uploaded
//   400 — malformed request (missing file, bad filter/bucket params)
// Row-level parse gaps are never errors; they are absorbed by the
// normalizer's fallbacks or dropped by the cleaner.
// ============================================================================

// maxUploadBytes caps uploads; 32 MB covers any plausible spreadsheet.
const maxUploadBytes = 32 << 20

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field in upload"})
		return
	}

	opened, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to open upload: %v", err)})
		return
	}
	defer opened.Close()

	data, err := io.ReadAll(io.LimitReader(opened, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read upload: %v", err)})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds the 32 MB limit"})
		return
	}

	rows, err := decode.Rows(file.Filename, data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, decode.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	records, err := ingest.Ingest(rows, s.rules, s.refYear)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.store(records, file.Filename)
	s.log.Info().
		Str("source", file.Filename).
		Int("rows", len(rows)).
		Int("records", len(records)).
		Msg("dataset loaded")

	c.JSON(http.StatusOK, gin.H{
		"source":  file.Filename,
		"rows":    len(rows),
		"records": len(records),
		"totals":  engine.Sum(records),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	s.reset()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRecords(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

func (s *Server) handleMetrics(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, engine.Sum(records))
}

func (s *Server) handleBuckets(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("by", "region") {
	case "region":
		c.JSON(http.StatusOK, engine.GroupByRegion(records))
	case "year":
		c.JSON(http.StatusOK, engine.GroupByYear(records))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "by must be \"region\" or \"year\""})
	}
}

func (s *Server) handleBenchmarks(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, engine.Benchmarks(records))
}

func (s *Server) handleProjections(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, engine.Projections(records))
}

func (s *Server) handleSummary(c *gin.Context) {
	records, ok := s.filtered(c)
	if !ok {
		return
	}

	s.mu.RLock()
	source, loadedAt := s.source, s.loadedAt
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"source":   source,
		"loadedAt": loadedAt,
		"summary":  engine.Summarize(records),
	})
}

// filtered resolves the request's filter criteria against the retained
// dataset, writing the error response itself when something is off.
func (s *Server) filtered(c *gin.Context) ([]engine.Record, bool) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	records, ok := s.snapshot(criteria)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no dataset loaded — upload a file first"})
		return nil, false
	}
	return records, true
}

// criteriaFromQuery reads region/year/from/to query params. from and to
// form an inclusive year range; an open end defaults to a wide bound.
func criteriaFromQuery(c *gin.Context) (engine.Criteria, error) {
	criteria := engine.Criteria{Region: c.Query("region")}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return engine.Criteria{}, fmt.Errorf("year must be an integer, got %q", raw)
		}
		criteria.Year = &year
	}

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		span := engine.YearRange{Min: 0, Max: 9999}
		if from != "" {
			min, err := strconv.Atoi(from)
			if err != nil {
				return engine.Criteria{}, fmt.Errorf("from must be an integer, got %q", from)
			}
			span.Min = min
		}
		if to != "" {
			max, err := strconv.Atoi(to)
			if err != nil {
				return engine.Criteria{}, fmt.Errorf("to must be an integer, got %q", to)
			}
			span.Max = max
		}
		criteria.YearRange = &span
	}

	return criteria, nil
}
