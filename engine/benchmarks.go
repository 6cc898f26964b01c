package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// BENCHMARK ENGINE — Comparative Statistics
// ============================================================================
// Derives an ordered list of labeled statistics from a record collection:
//   1. Overall rates (average annual loss/gain, gain-to-loss ratio)
//   2. Best / most challenged region by net change
//   3. Loss and gain trend % between the first and last observed year
// Empty input yields an empty list, not an error. Every division guards a
// zero denominator — NaN and Inf never reach the presentation layer. A
// trend whose first-year total is zero is emitted with Unavailable set
// instead of an undefined percentage.
// ============================================================================

// Benchmarks computes the ordered benchmark list for a record collection.
func Benchmarks(records []Record) []Benchmark {
	if len(records) == 0 {
		return []Benchmark{}
	}

	series := yearSeries(records)
	totals := Sum(records)

	marks := make([]Benchmark, 0, 7)
	marks = append(marks, overallBenchmarks(totals, len(series))...)
	marks = append(marks, regionBenchmarks(records)...)
	marks = append(marks, trendBenchmarks(series)...)
	return marks
}

// ============================================================================
// OVERALL
// ============================================================================

func overallBenchmarks(totals Totals, yearCount int) []Benchmark {
	var avgLoss, avgGain float64
	if yearCount > 0 {
		avgLoss = totals.TotalLoss / float64(yearCount)
		avgGain = totals.TotalGain / float64(yearCount)
	}

	// Ratio guards a zero denominator rather than propagating Inf.
	var ratio float64
	if totals.TotalLoss > 0 {
		ratio = totals.TotalGain / totals.TotalLoss
	}

	return []Benchmark{
		{Kind: KindOverall, Label: "Average annual forest loss", Value: avgLoss, Unit: "ha/year"},
		{Kind: KindOverall, Label: "Average annual forest gain", Value: avgGain, Unit: "ha/year"},
		{Kind: KindOverall, Label: "Gain-to-loss ratio", Value: ratio, Unit: "ratio"},
	}
}

// ============================================================================
// BEST / WORST PERFORMER
// ============================================================================

// regionBenchmarks ranks regions by net change and emits the top and bottom
// entries. With a single region, both benchmarks name the same region.
func regionBenchmarks(records []Record) []Benchmark {
	buckets := GroupByRegion(records)
	if len(buckets) == 0 {
		return nil
	}

	ranked := make([]Bucket, len(buckets))
	copy(ranked, buckets)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].NetChange > ranked[j].NetChange })

	best := ranked[0]
	worst := ranked[len(ranked)-1]

	return []Benchmark{
		{Kind: KindState, Label: "Best performer", Value: best.NetChange, Unit: "ha", Context: best.Label},
		{Kind: KindState, Label: "Most challenged", Value: worst.NetChange, Unit: "ha", Context: worst.Label},
	}
}

// ============================================================================
// TREND
// ============================================================================

// trendBenchmarks compares the chronologically first and last year totals.
// Requires at least 2 distinct years.
func trendBenchmarks(series []yearTotal) []Benchmark {
	if len(series) < 2 {
		return nil
	}

	first := series[0]
	last := series[len(series)-1]
	span := fmt.Sprintf("%d-%d", first.year, last.year)

	return []Benchmark{
		trendBenchmark("Forest loss trend", first.loss, last.loss, span),
		trendBenchmark("Forest gain trend", first.gain, last.gain, span),
	}
}

// trendBenchmark computes (last-first)/first as a percentage. A zero first
// value makes the percentage undefined; the benchmark is reported as
// unavailable instead.
func trendBenchmark(label string, first, last float64, span string) Benchmark {
	b := Benchmark{Kind: KindTrend, Label: label, Unit: "%", Context: span}
	if first == 0 {
		b.Unavailable = true
		return b
	}
	b.Value = (last - first) / first * 100
	return b
}
