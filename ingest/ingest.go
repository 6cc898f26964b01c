package ingest

import (
	"errors"

	"github.com/forestwatch-org/forestwatch/engine"
)

// ============================================================================
// INGESTION — Resolve + Normalize + Clean
// ============================================================================

// ErrNoData signals that no usable records survived normalization and
// cleaning. User-correctable: the message is surfaced verbatim to the
// uploader.
var ErrNoData = errors.New("no forest-change data found in the uploaded file")

// Ingest runs the full ingestion pipeline over decoded rows: per-row column
// resolution and normalization, then dataset cleaning. Column resolution is
// per row because third-party exports occasionally vary headers mid-file.
// Returns ErrNoData when zero records survive.
func Ingest(rows []RawRow, rules Rules, referenceYear int) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		fields := rules.Resolve(row)
		records = append(records, Normalize(row, fields, referenceYear))
	}

	cleaned := Clean(records, referenceYear)
	if len(cleaned) == 0 {
		return nil, ErrNoData
	}
	return cleaned, nil
}
