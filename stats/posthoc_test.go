package stats

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/logging"
)

// periodRecords builds n records in one period with the given weights.
func periodRecords(period string, route string, weights ...float64) []entities.DrugRecord {
	records := make([]entities.DrugRecord, len(weights))
	for i, w := range weights {
		records[i] = entities.DrugRecord{
			Name:            period + "-" + strings.Repeat("x", i+1),
			Route:           route,
			Period:          period,
			MolecularWeight: w,
		}
	}
	return records
}

func TestComparePeriodsMatrixSymmetry(t *testing.T) {
	logging.InitLogger("")

	var drugs []entities.DrugRecord
	drugs = append(drugs, periodRecords("1960-1979", "oral", 150, 180, 210, 190, 170)...)
	drugs = append(drugs, periodRecords("1980-1999", "oral", 320, 350, 310, 380, 340)...)
	drugs = append(drugs, periodRecords("2000-2019", "oral", 480, 510, 530, 490, 520)...)

	ds := makeDataset(drugs, []string{"1960-1979", "1980-1999", "2000-2019"})

	result, err := ComparePeriods(ds, "mw", RouteAll)
	if err != nil {
		t.Fatalf("ComparePeriods failed: %v", err)
	}

	if result.Matrix == nil {
		t.Fatal("expected a comparison matrix for 3 periods")
	}

	m := result.Matrix
	n := len(m.Periods)
	if n != 3 {
		t.Fatalf("matrix has %d periods, want 3", n)
	}

	for i := 0; i < n; i++ {
		if !math.IsNaN(m.P[i][i]) {
			t.Errorf("diagonal [%d][%d] = %v, want NaN", i, i, m.P[i][i])
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if m.P[i][j] != m.P[j][i] {
				t.Errorf("matrix not symmetric at [%d][%d]: %v != %v", i, j, m.P[i][j], m.P[j][i])
			}
			if m.Significant[i][j] != m.Significant[j][i] {
				t.Errorf("significance not symmetric at [%d][%d]", i, j)
			}
			if !math.IsNaN(m.P[i][j]) && (m.P[i][j] <= 0 || m.P[i][j] > 1) {
				t.Errorf("p[%d][%d] = %v outside (0, 1]", i, j, m.P[i][j])
			}
		}
	}
}

func TestComparePeriodsBoxSummaries(t *testing.T) {
	logging.InitLogger("")

	var drugs []entities.DrugRecord
	drugs = append(drugs, periodRecords("1960-1979", "oral", 200, 300, 400, 500)...)
	drugs = append(drugs, periodRecords("1980-1999", "oral", 100, 200, 300)...)

	ds := makeDataset(drugs, []string{"1960-1979", "1980-1999"})

	result, err := ComparePeriods(ds, "mw", RouteAll)
	if err != nil {
		t.Fatalf("ComparePeriods failed: %v", err)
	}

	if len(result.Boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(result.Boxes))
	}

	first := result.Boxes[0]
	if first.Period != "1960-1979" {
		t.Errorf("boxes out of chronological order: first is %s", first.Period)
	}
	if first.Count != 4 || first.Min != 200 || first.Max != 500 || first.Median != 350 || first.Mean != 350 {
		t.Errorf("unexpected box summary: %+v", first)
	}
}

func TestComparePeriodsSmallGroupIsNaN(t *testing.T) {
	logging.InitLogger("")

	var drugs []entities.DrugRecord
	drugs = append(drugs, periodRecords("1940-1959", "oral", 250)...) // single observation
	drugs = append(drugs, periodRecords("1960-1979", "oral", 150, 180, 210, 190)...)
	drugs = append(drugs, periodRecords("1980-1999", "oral", 320, 350, 310, 380)...)

	ds := makeDataset(drugs, []string{"1940-1959", "1960-1979", "1980-1999"})

	result, err := ComparePeriods(ds, "mw", RouteAll)
	if err != nil {
		t.Fatalf("ComparePeriods failed: %v", err)
	}

	m := result.Matrix
	if m == nil {
		t.Fatal("expected a matrix")
	}

	// Pairs against the singleton period are undefined, not errors
	if !math.IsNaN(m.P[0][1]) || !math.IsNaN(m.P[0][2]) {
		t.Errorf("pairs with n<2 should be NaN, got %v and %v", m.P[0][1], m.P[0][2])
	}
	if math.IsNaN(m.P[1][2]) {
		t.Error("pair of full periods should have a p-value")
	}
}

func TestComparePeriodsSinglePeriod(t *testing.T) {
	logging.InitLogger("")

	ds := makeDataset(periodRecords("1980-1999", "oral", 100, 200, 300), []string{"1980-1999"})

	result, err := ComparePeriods(ds, "mw", RouteAll)
	if err != nil {
		t.Fatalf("ComparePeriods failed: %v", err)
	}

	if result.Matrix != nil {
		t.Error("expected nil matrix for a single period")
	}
	if len(result.Boxes) != 1 {
		t.Errorf("got %d boxes, want 1", len(result.Boxes))
	}
}

func TestComparePeriodsInvalidColumn(t *testing.T) {
	logging.InitLogger("")

	ds := makeDataset(periodRecords("1980-1999", "oral", 100, 200), []string{"1980-1999"})

	_, err := ComparePeriods(ds, "nonexistent", RouteAll)
	if !errors.Is(err, ErrInvalidColumn) {
		t.Errorf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestComparePeriodsEmptyRoute(t *testing.T) {
	logging.InitLogger("")

	ds := makeDataset(periodRecords("1980-1999", "oral", 100, 200), []string{"1980-1999"})

	result, err := ComparePeriods(ds, "mw", "topical")
	if err != nil {
		t.Fatalf("expected empty result, not error: %v", err)
	}

	if len(result.Boxes) != 0 || result.Matrix != nil {
		t.Errorf("expected empty comparison, got %d boxes", len(result.Boxes))
	}
}

func TestHolmNeverDecreases(t *testing.T) {
	raw := []float64{0.01, 0.04, 0.03, 0.005, 0.2}

	adjusted := holm(raw)

	for i := range raw {
		if adjusted[i] < raw[i] {
			t.Errorf("adjusted[%d] = %v below raw %v", i, adjusted[i], raw[i])
		}
		if adjusted[i] > 1 {
			t.Errorf("adjusted[%d] = %v above 1", i, adjusted[i])
		}
	}
}

func TestHolmIsMonotoneInRankOrder(t *testing.T) {
	raw := []float64{0.2, 0.01, 0.04, 0.005, 0.03, 0.8}

	adjusted := holm(raw)

	// Sort pairs by raw p-value and check adjusted values never decrease
	type pair struct{ raw, adj float64 }
	pairs := make([]pair, len(raw))
	for i := range raw {
		pairs[i] = pair{raw[i], adjusted[i]}
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].raw < pairs[i].raw {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}

	for i := 1; i < len(pairs); i++ {
		if pairs[i].adj < pairs[i-1].adj {
			t.Errorf("adjusted values decrease in rank order: %v after %v", pairs[i].adj, pairs[i-1].adj)
		}
	}
}

func TestHolmKnownValues(t *testing.T) {
	// Classic step-down: sorted raw [0.01, 0.02, 0.04] with m=3
	// gives [0.03, 0.04, 0.04]
	adjusted := holm([]float64{0.04, 0.01, 0.02})

	want := []float64{0.04, 0.03, 0.04}
	for i := range want {
		if math.Abs(adjusted[i]-want[i]) > 1e-12 {
			t.Errorf("adjusted[%d] = %v, want %v", i, adjusted[i], want[i])
		}
	}
}

func TestHolmEmpty(t *testing.T) {
	if got := holm(nil); got != nil {
		t.Errorf("holm(nil) = %v, want nil", got)
	}
}

func TestMannWhitneySmallSamples(t *testing.T) {
	if p := mannWhitneyP([]float64{1}, []float64{2, 3}); !math.IsNaN(p) {
		t.Errorf("n=1 sample should yield NaN, got %v", p)
	}
}

func TestMannWhitneyIdenticalSamples(t *testing.T) {
	if p := mannWhitneyP([]float64{5, 5, 5}, []float64{5, 5, 5}); p != 1 {
		t.Errorf("identical samples should yield p=1, got %v", p)
	}
}

func TestMatrixJSONEncodesNaNAsNull(t *testing.T) {
	logging.InitLogger("")

	var drugs []entities.DrugRecord
	drugs = append(drugs, periodRecords("1940-1959", "oral", 250)...)
	drugs = append(drugs, periodRecords("1960-1979", "oral", 150, 180, 210)...)
	drugs = append(drugs, periodRecords("1980-1999", "oral", 320, 350, 310)...)

	ds := makeDataset(drugs, []string{"1940-1959", "1960-1979", "1980-1999"})

	result, err := ComparePeriods(ds, "mw", RouteAll)
	if err != nil {
		t.Fatalf("ComparePeriods failed: %v", err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("matrix with NaN entries must marshal: %v", err)
	}

	if !strings.Contains(string(body), "null") {
		t.Error("expected NaN entries encoded as null")
	}
}
