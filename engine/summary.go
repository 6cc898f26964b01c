package engine

// Summary bundles every derived view of a record collection for a single
// dashboard render. Recomputed in full on each request; cheap enough that
// incremental patching would be complexity for nothing.
type Summary struct {
	Count       int          `json:"count"`
	Totals      Totals       `json:"totals"`
	Years       []int        `json:"years"`
	ByRegion    []Bucket     `json:"byRegion"`
	ByYear      []Bucket     `json:"byYear"`
	Benchmarks  []Benchmark  `json:"benchmarks"`
	Projections []Projection `json:"projections"`
}

// Summarize computes the full dashboard payload for a record collection.
func Summarize(records []Record) Summary {
	return Summary{
		Count:       len(records),
		Totals:      Sum(records),
		Years:       DistinctYears(records),
		ByRegion:    GroupByRegion(records),
		ByYear:      GroupByYear(records),
		Benchmarks:  Benchmarks(records),
		Projections: Projections(records),
	}
}
