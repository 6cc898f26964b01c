package engine

import (
	"math"
	"reflect"
	"testing"
)

// ============================================================================
// AGGREGATOR TESTS
// ============================================================================

// aggFixture deliberately interleaves regions and scrambles year order.
func aggFixture() []Record {
	return []Record{
		{ID: "1", Region: "Kerala", Year: 2020, Loss: 50, Gain: 75, NetChange: 25},
		{ID: "2", Region: "Assam", Year: 2018, Loss: 200, Gain: 30, NetChange: -170},
		{ID: "3", Region: "Kerala", Year: 2018, Loss: 120, Gain: 60, NetChange: -60},
		{ID: "4", Region: "Odisha", Year: 2019, Loss: 40, Gain: 20, NetChange: -20},
		{ID: "5", Region: "Assam", Year: 2020, Loss: 80, Gain: 95, NetChange: 15},
	}
}

func TestSum(t *testing.T) {
	totals := Sum(aggFixture())

	if totals.TotalLoss != 490 {
		t.Errorf("TotalLoss = %v, want 490", totals.TotalLoss)
	}
	if totals.TotalGain != 280 {
		t.Errorf("TotalGain = %v, want 280", totals.TotalGain)
	}
	if totals.NetChange != -210 {
		t.Errorf("NetChange = %v, want -210", totals.NetChange)
	}
}

func TestSumEmptyInput(t *testing.T) {
	totals := Sum(nil)
	if totals != (Totals{}) {
		t.Errorf("empty input should yield all-zero totals, got %+v", totals)
	}
}

func TestGroupByRegionFirstSeenOrder(t *testing.T) {
	buckets := GroupByRegion(aggFixture())

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	want := []string{"Kerala", "Assam", "Odisha"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("region bucket order = %v, want first-seen %v", labels, want)
	}

	kerala := buckets[0]
	if kerala.Loss != 170 || kerala.Gain != 135 || kerala.NetChange != -35 {
		t.Errorf("Kerala bucket = %+v, want loss=170 gain=135 net=-35", kerala)
	}
}

func TestGroupByYearSortedAscending(t *testing.T) {
	buckets := GroupByYear(aggFixture())

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	want := []string{"2018", "2019", "2020"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("year bucket order = %v, want ascending %v", labels, want)
	}

	y2018 := buckets[0]
	if y2018.Loss != 320 || y2018.Gain != 90 || y2018.NetChange != -230 {
		t.Errorf("2018 bucket = %+v, want loss=320 gain=90 net=-230", y2018)
	}
}

// Conservation: the sum of bucket losses must equal the collection total,
// for either grouping dimension.
func TestBucketSumsMatchTotals(t *testing.T) {
	records := aggFixture()
	totals := Sum(records)

	for name, buckets := range map[string][]Bucket{
		"region": GroupByRegion(records),
		"year":   GroupByYear(records),
	} {
		var loss, gain float64
		for _, b := range buckets {
			loss += b.Loss
			gain += b.Gain
		}
		if math.Abs(loss-totals.TotalLoss) > 1e-9 || math.Abs(gain-totals.TotalGain) > 1e-9 {
			t.Errorf("%s buckets sum to loss=%v gain=%v, totals are loss=%v gain=%v",
				name, loss, gain, totals.TotalLoss, totals.TotalGain)
		}
	}
}

func TestDistinctYears(t *testing.T) {
	got := DistinctYears(aggFixture())
	want := []int{2018, 2019, 2020}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctYears = %v, want %v", got, want)
	}
}
