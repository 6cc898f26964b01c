package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// PROJECTION ENGINE — Linear Trend Extrapolation
// ============================================================================
// Estimates future loss/gain from the average year-over-year delta of the
// per-year totals — a discrete-derivative trend, not a least-squares fit.
// Emits projections at +1, +3, and +5 years from the last observed year,
// plus one equilibrium milestone when the loss and gain trends cross
// within the next 30 years. Requires at least 2 distinct years.
// ============================================================================

// projectionHorizons are the fixed look-ahead offsets, in years.
var projectionHorizons = [...]int{1, 3, 5}

// equilibriumBound caps how far ahead an equilibrium year may land.
// Crossings beyond it are discarded as absurd long-range extrapolation.
const equilibriumBound = 30

// Projections extrapolates future-year estimates from a record collection.
// Fewer than 2 distinct years yields an empty list.
func Projections(records []Record) []Projection {
	series := yearSeries(records)
	if len(series) < 2 {
		return []Projection{}
	}

	// Average the deltas between every chronologically adjacent year pair.
	var lossDelta, gainDelta float64
	for i := 1; i < len(series); i++ {
		lossDelta += series[i].loss - series[i-1].loss
		gainDelta += series[i].gain - series[i-1].gain
	}
	steps := float64(len(series) - 1)
	lossDelta /= steps
	gainDelta /= steps

	first := series[0]
	last := series[len(series)-1]
	span := fmt.Sprintf("%d-%d", first.year, last.year)

	out := make([]Projection, 0, len(projectionHorizons)+1)
	for _, h := range projectionHorizons {
		loss := math.Max(0, last.loss+lossDelta*float64(h))
		gain := math.Max(0, last.gain+gainDelta*float64(h))
		out = append(out, Projection{
			Year:        last.year + h,
			Loss:        loss,
			Gain:        gain,
			NetChange:   gain - loss,
			Description: fmt.Sprintf("Linear projection from the %s trend", span),
		})
	}

	if eq, ok := equilibrium(last, lossDelta, gainDelta, span); ok {
		out = append(out, eq)
	}
	return out
}

// equilibrium solves lastLoss + lossDelta*t = lastGain + gainDelta*t.
// Parallel trends never cross; crossings in the past or beyond the bound
// are discarded.
func equilibrium(last yearTotal, lossDelta, gainDelta float64, span string) (Projection, bool) {
	if lossDelta == gainDelta {
		return Projection{}, false
	}

	t := (last.loss - last.gain) / (gainDelta - lossDelta)
	if t <= 0 || t >= equilibriumBound {
		return Projection{}, false
	}

	level := math.Max(0, last.loss+lossDelta*t)
	return Projection{
		Year:        int(math.Round(float64(last.year) + t)),
		Loss:        level,
		Gain:        level,
		NetChange:   0,
		Description: fmt.Sprintf("Estimated equilibrium: loss and gain trends intersect under the %s trend", span),
		Equilibrium: true,
	}, true
}
