package engine

import (
	"math"
	"testing"
)

// ============================================================================
// PROJECTION ENGINE TESTS
// ============================================================================

// twoYearFixture: 2018 loss=100 gain=50, 2019 loss=80 gain=70.
// Deltas: loss -20/year, gain +20/year.
func twoYearFixture() []Record {
	return []Record{
		{Region: "Kerala", Year: 2018, Loss: 100, Gain: 50, NetChange: -50},
		{Region: "Kerala", Year: 2019, Loss: 80, Gain: 70, NetChange: -10},
	}
}

func TestProjectionsRequireTwoYears(t *testing.T) {
	if got := Projections(nil); len(got) != 0 {
		t.Errorf("no records should yield no projections, got %v", got)
	}
	single := []Record{{Region: "Kerala", Year: 2020, Loss: 10, Gain: 5}}
	if got := Projections(single); len(got) != 0 {
		t.Errorf("a single year should yield no projections, got %v", got)
	}
}

func TestProjectionsHorizons(t *testing.T) {
	got := Projections(twoYearFixture())
	if len(got) != 4 {
		t.Fatalf("got %d projections, want 3 horizons + 1 equilibrium", len(got))
	}

	oneYear := got[0]
	if oneYear.Year != 2020 {
		t.Errorf("+1 horizon year = %d, want 2020", oneYear.Year)
	}
	if oneYear.Loss != 60 || oneYear.Gain != 90 || oneYear.NetChange != 30 {
		t.Errorf("+1 horizon = loss=%v gain=%v net=%v, want 60/90/30",
			oneYear.Loss, oneYear.Gain, oneYear.NetChange)
	}

	threeYear := got[1]
	if threeYear.Year != 2022 || threeYear.Loss != 20 || threeYear.Gain != 130 {
		t.Errorf("+3 horizon = %+v, want year=2022 loss=20 gain=130", threeYear)
	}

	// +5 would extrapolate loss to -20; it clamps at zero instead.
	fiveYear := got[2]
	if fiveYear.Year != 2024 || fiveYear.Loss != 0 || fiveYear.Gain != 170 {
		t.Errorf("+5 horizon = %+v, want year=2024 loss=0 gain=170", fiveYear)
	}
}

func TestProjectionsEquilibrium(t *testing.T) {
	got := Projections(twoYearFixture())

	var eq *Projection
	for i := range got {
		if got[i].Equilibrium {
			eq = &got[i]
		}
	}
	if eq == nil {
		t.Fatal("expected an equilibrium projection")
	}

	// t = (80-70) / (20-(-20)) = 0.25 years → rounds back to 2019.
	if eq.Year != 2019 {
		t.Errorf("equilibrium year = %d, want 2019", eq.Year)
	}
	if eq.NetChange != 0 {
		t.Errorf("equilibrium net change = %v, want forced 0", eq.NetChange)
	}
	if eq.Loss != eq.Gain {
		t.Errorf("equilibrium loss %v != gain %v", eq.Loss, eq.Gain)
	}
}

// Parallel trends never cross: no equilibrium projection.
func TestProjectionsParallelTrendsNoEquilibrium(t *testing.T) {
	got := Projections([]Record{
		{Region: "Assam", Year: 2018, Loss: 100, Gain: 20},
		{Region: "Assam", Year: 2019, Loss: 110, Gain: 30}, // both +10/year
	})

	if len(got) != 3 {
		t.Fatalf("got %d projections, want exactly the 3 horizons", len(got))
	}
	for _, p := range got {
		if p.Equilibrium {
			t.Errorf("unexpected equilibrium projection %+v", p)
		}
	}
}

// A crossing beyond the 30-year bound is discarded as absurd long-range
// extrapolation, as is a crossing in the past.
func TestProjectionsEquilibriumOutOfBounds(t *testing.T) {
	farFuture := []Record{
		{Region: "Odisha", Year: 2018, Loss: 1000, Gain: 0},
		{Region: "Odisha", Year: 2019, Loss: 999, Gain: 1}, // t = 499 years
	}
	if got := Projections(farFuture); len(got) != 3 {
		t.Errorf("far-future crossing should be dropped, got %d projections", len(got))
	}

	inThePast := []Record{
		{Region: "Odisha", Year: 2018, Loss: 30, Gain: 35},
		{Region: "Odisha", Year: 2019, Loss: 50, Gain: 40}, // crossed before 2019: t = 10/-15
	}
	if got := Projections(inThePast); len(got) != 3 {
		t.Errorf("past crossing should be dropped, got %d projections", len(got))
	}
}

// Multi-year series average the deltas across every adjacent pair, and
// gaps between observed years count as one step, not one year.
func TestProjectionsAveragedDeltas(t *testing.T) {
	got := Projections([]Record{
		{Region: "Kerala", Year: 2016, Loss: 90, Gain: 10},
		{Region: "Kerala", Year: 2017, Loss: 80, Gain: 25},
		{Region: "Kerala", Year: 2019, Loss: 50, Gain: 55},
	})
	// Loss deltas: -10, -30 → avg -20. Gain deltas: +15, +30 → avg +22.5.
	oneYear := got[0]
	if oneYear.Year != 2020 {
		t.Errorf("+1 horizon year = %d, want 2020", oneYear.Year)
	}
	if math.Abs(oneYear.Loss-30) > 1e-9 || math.Abs(oneYear.Gain-77.5) > 1e-9 {
		t.Errorf("+1 horizon = loss=%v gain=%v, want 30/77.5", oneYear.Loss, oneYear.Gain)
	}
}
