package engine

import (
	"sort"
	"strconv"
)

// ============================================================================
// AGGREGATORS — Grouping and Whole-Collection Totals
// ============================================================================
// All pure reductions over a []Record. Grouping never relies on map
// iteration order: region buckets preserve first-seen input order, year
// buckets are explicitly sorted ascending because they feed time-series
// charts where chronological order is a correctness requirement.
// ============================================================================

// Sum computes whole-collection totals. Empty input yields all zeroes.
func Sum(records []Record) Totals {
	var t Totals
	for _, r := range records {
		t.TotalLoss += r.Loss
		t.TotalGain += r.Gain
	}
	t.NetChange = t.TotalGain - t.TotalLoss
	return t
}

// GroupByRegion sums loss/gain per region. One bucket per distinct region,
// in first-seen input order.
func GroupByRegion(records []Record) []Bucket {
	grouped := make(map[string]*Bucket)
	order := make([]string, 0)

	for _, r := range records {
		b, exists := grouped[r.Region]
		if !exists {
			b = &Bucket{Label: r.Region}
			grouped[r.Region] = b
			order = append(order, r.Region)
		}
		b.Loss += r.Loss
		b.Gain += r.Gain
	}

	buckets := make([]Bucket, 0, len(order))
	for _, region := range order {
		b := grouped[region]
		b.NetChange = b.Gain - b.Loss
		buckets = append(buckets, *b)
	}
	return buckets
}

// GroupByYear sums loss/gain per year, sorted ascending by year.
// Labels are the year as a display string.
func GroupByYear(records []Record) []Bucket {
	series := yearSeries(records)
	buckets := make([]Bucket, 0, len(series))
	for _, y := range series {
		buckets = append(buckets, Bucket{
			Label:     strconv.Itoa(y.year),
			Loss:      y.loss,
			Gain:      y.gain,
			NetChange: y.gain - y.loss,
		})
	}
	return buckets
}

// DistinctYears returns the distinct calendar years present, ascending.
func DistinctYears(records []Record) []int {
	series := yearSeries(records)
	years := make([]int, len(series))
	for i, y := range series {
		years[i] = y.year
	}
	return years
}

// ============================================================================
// YEAR SERIES — shared by aggregator, benchmarks, and projections
// ============================================================================

// yearTotal is one year's summed loss and gain.
type yearTotal struct {
	year int
	loss float64
	gain float64
}

// yearSeries groups records by year and returns the totals sorted ascending.
func yearSeries(records []Record) []yearTotal {
	grouped := make(map[int]*yearTotal)
	for _, r := range records {
		y, exists := grouped[r.Year]
		if !exists {
			y = &yearTotal{year: r.Year}
			grouped[r.Year] = y
		}
		y.loss += r.Loss
		y.gain += r.Gain
	}

	series := make([]yearTotal, 0, len(grouped))
	for _, y := range grouped {
		series = append(series, *y)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].year < series[j].year })
	return series
}
