// Package validation provides data validation for the chemspace API.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/interfaces"
	"github.com/quimed/chemspace-api/logging"
)

// knownRoutes are the administration routes the dashboard filters on.
// Unknown routes are logged, not rejected: the dataset is the source of
// truth and new categories should surface, not vanish.
var knownRoutes = map[string]struct{}{
	"oral":       {},
	"parenteral": {},
	"topical":    {},
}

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateRecord checks if a drug record is valid
func (v *DataValidatorImpl) ValidateRecord(d *entities.DrugRecord) error {
	if d == nil {
		return fmt.Errorf("drug record is nil")
	}

	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("empty drug name")
	}

	if len(d.Name) > 200 {
		return fmt.Errorf("drug name too long: %d characters", len(d.Name))
	}

	if strings.TrimSpace(d.Smiles) == "" {
		return fmt.Errorf("empty structure encoding for %s", d.Name)
	}

	if d.ApprovalYear != 0 && (d.ApprovalYear < 1800 || d.ApprovalYear > 2100) {
		return fmt.Errorf("implausible approval year for %s: %d", d.Name, d.ApprovalYear)
	}

	if d.QED < 0 || d.QED > 1 {
		return fmt.Errorf("drug-likeness score out of [0,1] for %s: %v", d.Name, d.QED)
	}

	if d.FSP3 < 0 || d.FSP3 > 1 {
		return fmt.Errorf("sp3 fraction out of [0,1] for %s: %v", d.Name, d.FSP3)
	}

	for _, name := range entities.DescriptorNames {
		acc, ok := entities.Descriptor(name)
		if !ok {
			return fmt.Errorf("descriptor %q has no accessor", name)
		}
		if value := acc(d); math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("non-finite descriptor %s for %s", name, d.Name)
		}
	}

	return nil
}

// ValidateDataset checks whole-dataset consistency before a snapshot swap.
// Per-record failures and unknown categories are logged; the load is
// rejected only when nothing usable remains.
func (v *DataValidatorImpl) ValidateDataset(ds *entities.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}

	if len(ds.Drugs) == 0 {
		return fmt.Errorf("dataset has no records")
	}

	invalid := 0
	unknownRoutes := make(map[string]int)

	for i := range ds.Drugs {
		if err := v.ValidateRecord(&ds.Drugs[i]); err != nil {
			logging.Warn("Invalid drug record", "error", err)
			invalid++
			continue
		}

		if _, ok := knownRoutes[ds.Drugs[i].Route]; !ok && ds.Drugs[i].Route != "" {
			unknownRoutes[ds.Drugs[i].Route]++
		}
	}

	for route, count := range unknownRoutes {
		logging.Warn("Unknown administration route in dataset", "route", route, "count", count)
	}

	if invalid == len(ds.Drugs) {
		return fmt.Errorf("all %d records are invalid", invalid)
	}

	if invalid > 0 {
		logging.Warn("Dataset validated with invalid records",
			"invalid", invalid,
			"total", len(ds.Drugs))
	}

	if len(ds.Periods) < 2 {
		logging.Warn("Fewer than 2 approval periods, period comparisons will be skipped",
			"periods", len(ds.Periods))
	}

	return nil
}
