package engine

import (
	"reflect"
	"testing"
)

// ============================================================================
// FILTER ENGINE TESTS
// ============================================================================

func filterFixture() []Record {
	return []Record{
		{ID: "a", Region: "Kerala", Year: 2018, Loss: 120, Gain: 60, NetChange: -60},
		{ID: "b", Region: "Assam", Year: 2018, Loss: 200, Gain: 30, NetChange: -170},
		{ID: "c", Region: "Kerala", Year: 2019, Loss: 90, Gain: 80, NetChange: -10},
		{ID: "d", Region: "Odisha", Year: 2020, Loss: 50, Gain: 75, NetChange: 25},
		{ID: "e", Region: "Kerala", Year: 2021, Loss: 70, Gain: 95, NetChange: 25},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApplyNoCriteriaIsIdentity(t *testing.T) {
	records := filterFixture()
	got := Apply(records, Criteria{})

	if !reflect.DeepEqual(got, records) {
		t.Fatalf("empty criteria should return input unchanged, got %v", ids(got))
	}
	// Same backing array, not a copy.
	if &got[0] != &records[0] {
		t.Error("empty criteria should return the input slice itself")
	}
}

func TestApplyRegion(t *testing.T) {
	got := Apply(filterFixture(), Criteria{Region: "Kerala"})
	want := []string{"a", "c", "e"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("region filter: got %v, want %v", ids(got), want)
	}

	// Case-sensitive equality: lowercase does not match.
	if got := Apply(filterFixture(), Criteria{Region: "kerala"}); len(got) != 0 {
		t.Errorf("region match must be case-sensitive, got %v", ids(got))
	}
}

func TestApplyExactYear(t *testing.T) {
	year := 2018
	got := Apply(filterFixture(), Criteria{Year: &year})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("year filter: got %v, want %v", ids(got), want)
	}
}

func TestApplyYearRangeInclusive(t *testing.T) {
	got := Apply(filterFixture(), Criteria{YearRange: &YearRange{Min: 2019, Max: 2020}})
	want := []string{"c", "d"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("range filter: got %v, want %v", ids(got), want)
	}
}

func TestApplyCombinedCriteria(t *testing.T) {
	// All set criteria are AND-combined, even the redundant year + range
	// pair the dashboard UI would normally not produce together.
	year := 2019
	got := Apply(filterFixture(), Criteria{
		Region:    "Kerala",
		Year:      &year,
		YearRange: &YearRange{Min: 2018, Max: 2021},
	})
	want := []string{"c"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("combined filter: got %v, want %v", ids(got), want)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	before := make([]Record, len(records))
	copy(before, records)

	Apply(records, Criteria{Region: "Assam"})

	if !reflect.DeepEqual(records, before) {
		t.Error("Apply mutated its input")
	}
}
