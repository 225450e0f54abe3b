// Package stats implements the descriptive-statistics and period-comparison
// pipeline over the loaded drug dataset.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/quimed/chemspace-api/dataset"
	"github.com/quimed/chemspace-api/dataset/entities"
)

// ErrInvalidColumn means statistics were requested on a column that is not a
// numeric descriptor.
var ErrInvalidColumn = errors.New("stats: unknown or non-numeric column")

// RouteAll selects every record regardless of administration route.
const RouteAll = "all"

// DescriptorSummary holds the descriptive statistics of one descriptor.
type DescriptorSummary struct {
	Descriptor string  `json:"descriptor"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	P25        float64 `json:"p25"`
	P50        float64 `json:"p50"`
	P75        float64 `json:"p75"`
	P90        float64 `json:"p90"`
}

// Summary is the full descriptive-statistics table for one route selection.
// Zero matching records yields Records == 0 and an empty Descriptors slice,
// not an error.
type Summary struct {
	Route       string              `json:"route"`
	Records     int                 `json:"records"`
	Descriptors []DescriptorSummary `json:"descriptors"`
}

// filterByRoute returns the records matching the normalized route, or all
// records for RouteAll/empty.
func filterByRoute(ds *entities.Dataset, route string) []*entities.DrugRecord {
	route = dataset.NormalizeCategory(route)

	selected := make([]*entities.DrugRecord, 0, len(ds.Drugs))
	for i := range ds.Drugs {
		if route == "" || route == RouteAll || ds.Drugs[i].Route == route {
			selected = append(selected, &ds.Drugs[i])
		}
	}
	return selected
}

// Describe computes count, mean, sample standard deviation and the
// 25/50/75/90th percentiles of every numeric descriptor, optionally
// restricted to one administration route.
func Describe(ds *entities.Dataset, route string) (*Summary, error) {
	records := filterByRoute(ds, route)

	summary := &Summary{
		Route:       dataset.NormalizeCategory(route),
		Records:     len(records),
		Descriptors: make([]DescriptorSummary, 0, len(entities.DescriptorNames)),
	}
	if summary.Route == "" {
		summary.Route = RouteAll
	}

	if len(records) == 0 {
		return summary, nil
	}

	for _, name := range entities.DescriptorNames {
		acc, ok := entities.Descriptor(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, name)
		}

		values := descriptorValues(records, acc)
		sort.Float64s(values)

		summary.Descriptors = append(summary.Descriptors, DescriptorSummary{
			Descriptor: name,
			Count:      len(values),
			Mean:       stat.Mean(values, nil),
			Std:        stat.StdDev(values, nil),
			P25:        percentile(values, 0.25),
			P50:        percentile(values, 0.50),
			P75:        percentile(values, 0.75),
			P90:        percentile(values, 0.90),
		})
	}

	return summary, nil
}

// percentile computes the p-quantile of sorted values using linear
// interpolation between order statistics, the same convention the
// dashboard's tables always used.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// descriptorValues extracts one descriptor column from a record subset.
func descriptorValues(records []*entities.DrugRecord, acc entities.DescriptorAccessor) []float64 {
	values := make([]float64, len(records))
	for i, rec := range records {
		values[i] = acc(rec)
	}
	return values
}
