package engine

// ============================================================================
// FORESTWATCH ENGINE TYPES — Canonical Records and Derived Values
// ============================================================================
// Record is the single source-of-truth entity produced by ingestion.
// Everything else here is a plain value struct derived from a []Record —
// no identity, no behavior, recomputed on demand, safe to hand to any
// rendering layer.
// ============================================================================

// Record is one normalized region-year observation of forest change.
// Amounts are hectares that occurred in Region during Year, never cumulative.
// NetChange is always Gain - Loss; it is recomputed whenever the amounts
// change and is never set independently.
type Record struct {
	ID        string  `json:"id"`
	Region    string  `json:"region"`
	Year      int     `json:"year"`
	Loss      float64 `json:"loss"`
	Gain      float64 `json:"gain"`
	NetChange float64 `json:"netChange"`
}

// Totals are whole-collection aggregates.
type Totals struct {
	TotalLoss float64 `json:"totalLoss"`
	TotalGain float64 `json:"totalGain"`
	NetChange float64 `json:"netChange"`
}

// Bucket is one chart-ready aggregate keyed by a region name or a year
// rendered as a display string.
type Bucket struct {
	Label     string  `json:"label"`
	Loss      float64 `json:"loss"`
	Gain      float64 `json:"gain"`
	NetChange float64 `json:"netChange"`
}

// BenchmarkKind tags what a benchmark describes.
type BenchmarkKind string

const (
	// KindOverall is a dataset-wide rate or ratio.
	KindOverall BenchmarkKind = "overall"
	// KindState is a single best/worst performing region.
	KindState BenchmarkKind = "state"
	// KindTrend is a year-over-year percentage change.
	KindTrend BenchmarkKind = "trend"
)

// Benchmark is one labeled comparative statistic.
// Context carries the region name for KindState and the "first-last" year
// span for KindTrend. Unavailable marks a statistic whose denominator was
// zero; Value is meaningless then and must not be rendered as a number.
type Benchmark struct {
	Kind        BenchmarkKind `json:"kind"`
	Label       string        `json:"label"`
	Value       float64       `json:"value"`
	Unit        string        `json:"unit"`
	Context     string        `json:"context,omitempty"`
	Unavailable bool          `json:"unavailable,omitempty"`
}

// Projection is one future-year estimate under linear extrapolation.
// Equilibrium marks the milestone year where the loss and gain trends
// intersect; its NetChange is zero by construction.
type Projection struct {
	Year        int     `json:"year"`
	Loss        float64 `json:"loss"`
	Gain        float64 `json:"gain"`
	NetChange   float64 `json:"netChange"`
	Description string  `json:"description"`
	Equilibrium bool    `json:"equilibrium"`
}

// YearRange is an inclusive [Min, Max] span of calendar years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Criteria are user-selected filter predicates. Zero values mean "not set".
// Year and YearRange are mutually exclusive in the dashboard UI, but Apply
// honors whichever are present without assuming exclusivity.
type Criteria struct {
	Region    string     `json:"region,omitempty"`
	Year      *int       `json:"year,omitempty"`
	YearRange *YearRange `json:"yearRange,omitempty"`
}

// IsEmpty returns true if no criteria are set.
func (c Criteria) IsEmpty() bool {
	return c.Region == "" && c.Year == nil && c.YearRange == nil
}
