package ingest

import (
	"github.com/forestwatch-org/forestwatch/engine"
)

// ============================================================================
// DATASET CLEANER — Collection-Wide Invariants
// ============================================================================
// Drops records the normalizer could not fill in meaningfully: empty region,
// or a year outside (1900, referenceYear]. Negative amounts are clamped to
// zero — not dropped — and the net change recomputed. Idempotent by
// construction: a cleaned collection passes through unchanged.
// ============================================================================

// Clean filters and clamps a record collection. referenceYear is the upper
// year bound, threaded explicitly so cleaning stays a pure function of
// (data, referenceYear) rather than the wall clock.
func Clean(records []engine.Record, referenceYear int) []engine.Record {
	out := make([]engine.Record, 0, len(records))
	for _, r := range records {
		if r.Region == "" {
			continue
		}
		if r.Year <= 1900 || r.Year > referenceYear {
			continue
		}
		if r.Loss < 0 {
			r.Loss = 0
		}
		if r.Gain < 0 {
			r.Gain = 0
		}
		r.NetChange = r.Gain - r.Loss
		out = append(out, r)
	}
	return out
}
