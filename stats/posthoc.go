package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/quimed/chemspace-api/dataset"
	"github.com/quimed/chemspace-api/dataset/entities"
)

// SignificanceLevel is the conventional p < 0.05 threshold highlighted on
// the heatmap.
const SignificanceLevel = 0.05

// BoxSummary is the five-number summary of one period's descriptor
// distribution, for the box plot above the significance heatmap.
type BoxSummary struct {
	Period string  `json:"period"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// ComparisonMatrix holds Holm-adjusted p-values for every pair of periods.
// Symmetric by construction; the diagonal and pairs with fewer than two
// observations on either side are NaN (serialized as null).
type ComparisonMatrix struct {
	Periods     []string
	P           [][]float64
	Significant [][]bool
}

// MarshalJSON renders NaN entries as null, since JSON has no NaN.
func (m *ComparisonMatrix) MarshalJSON() ([]byte, error) {
	p := make([][]*float64, len(m.P))
	for i := range m.P {
		p[i] = make([]*float64, len(m.P[i]))
		for j := range m.P[i] {
			if !math.IsNaN(m.P[i][j]) {
				v := m.P[i][j]
				p[i][j] = &v
			}
		}
	}

	return json.Marshal(struct {
		Periods     []string     `json:"periods"`
		P           [][]*float64 `json:"p"`
		Significant [][]bool     `json:"significant"`
	}{m.Periods, p, m.Significant})
}

// PeriodComparison is the full output of the period statistics pipeline for
// one descriptor. Matrix is nil when fewer than two periods are present.
type PeriodComparison struct {
	Descriptor string            `json:"descriptor"`
	Route      string            `json:"route"`
	Boxes      []BoxSummary      `json:"boxes"`
	Matrix     *ComparisonMatrix `json:"matrix,omitempty"`
}

// ComparePeriods groups the chosen descriptor by approval period and runs
// all-pairs Mann-Whitney U tests with Holm correction across the pair set.
func ComparePeriods(ds *entities.Dataset, descriptor, route string) (*PeriodComparison, error) {
	acc, ok := entities.Descriptor(descriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, descriptor)
	}

	records := filterByRoute(ds, route)

	// Group by period, keeping the dataset's chronological period order
	groups := make(map[string][]float64)
	for _, rec := range records {
		if rec.Period == "" {
			continue
		}
		groups[rec.Period] = append(groups[rec.Period], acc(rec))
	}

	periods := make([]string, 0, len(groups))
	for _, p := range ds.Periods {
		if _, ok := groups[p]; ok {
			periods = append(periods, p)
		}
	}

	result := &PeriodComparison{
		Descriptor: descriptor,
		Route:      dataset.NormalizeCategory(route),
		Boxes:      make([]BoxSummary, 0, len(periods)),
	}
	if result.Route == "" {
		result.Route = RouteAll
	}

	for _, p := range periods {
		values := groups[p]
		sort.Float64s(values)
		result.Boxes = append(result.Boxes, BoxSummary{
			Period: p,
			Count:  len(values),
			Min:    values[0],
			Q1:     percentile(values, 0.25),
			Median: percentile(values, 0.50),
			Q3:     percentile(values, 0.75),
			Max:    values[len(values)-1],
			Mean:   stat.Mean(values, nil),
		})
	}

	// Pairwise testing needs at least two distinct periods
	if len(periods) < 2 {
		return result, nil
	}

	result.Matrix = buildMatrix(periods, groups)
	return result, nil
}

// pairIndex identifies one unordered period pair inside the matrix.
type pairIndex struct {
	i, j int
	p    float64
}

// buildMatrix runs every pairwise test and fills the symmetric adjusted
// p-value matrix.
func buildMatrix(periods []string, groups map[string][]float64) *ComparisonMatrix {
	n := len(periods)

	m := &ComparisonMatrix{
		Periods:     periods,
		P:           make([][]float64, n),
		Significant: make([][]bool, n),
	}
	for i := 0; i < n; i++ {
		m.P[i] = make([]float64, n)
		m.Significant[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			m.P[i][j] = math.NaN()
		}
	}

	var pairs []pairIndex
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := mannWhitneyP(groups[periods[i]], groups[periods[j]])
			if !math.IsNaN(p) {
				pairs = append(pairs, pairIndex{i: i, j: j, p: p})
			}
		}
	}

	adjusted := holm(pairsPValues(pairs))
	for k, pair := range pairs {
		m.P[pair.i][pair.j] = adjusted[k]
		m.P[pair.j][pair.i] = adjusted[k]
		significant := adjusted[k] < SignificanceLevel
		m.Significant[pair.i][pair.j] = significant
		m.Significant[pair.j][pair.i] = significant
	}

	return m
}

func pairsPValues(pairs []pairIndex) []float64 {
	ps := make([]float64, len(pairs))
	for i, pair := range pairs {
		ps[i] = pair.p
	}
	return ps
}

// mannWhitneyP runs the two-sample rank test and returns its raw p-value.
// Groups with fewer than two observations cannot be compared and yield NaN.
// Two identical samples carry no evidence of a difference, so that case maps
// to p = 1 instead of an error.
func mannWhitneyP(x, y []float64) float64 {
	if len(x) < 2 || len(y) < 2 {
		return math.NaN()
	}

	res, err := mstats.MannWhitneyUTest(x, y, mstats.LocationDiffers)
	if err != nil {
		if errors.Is(err, mstats.ErrSamplesEqual) {
			return 1
		}
		return math.NaN()
	}

	return res.P
}

// holm applies Holm's step-down multiple-comparison correction. Adjusted
// values never fall below their raw counterparts and are monotonically
// non-decreasing in the rank order of the raw p-values.
func holm(raw []float64) []float64 {
	m := len(raw)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return raw[order[a]] < raw[order[b]] })

	adjusted := make([]float64, m)
	running := 0.0
	for rank, idx := range order {
		p := raw[idx] * float64(m-rank)
		if p > 1 {
			p = 1
		}
		if p < running {
			p = running
		}
		running = p
		adjusted[idx] = p
	}

	return adjusted
}
