package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/logging"
)

// Column layout of the drugs TSV file.
const (
	colName = iota
	colSmiles
	colClass
	colRoute
	colApprovalYear
	colPeriod
	colMW
	colLogP
	colHBD
	colHBA
	colQED
	colHeavyAtoms
	colRotBonds
	colAromaticRings
	colTPSA
	colFSP3

	columnCount
)

// NormalizeCategory maps a categorical cell ("Oral", " oral ") to its
// canonical form. Used for both administration routes and period labels so
// filters never depend on the source file's casing.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Load reads and parses the dataset file into an immutable Dataset.
func Load(path string) (*entities.Dataset, error) {
	reader, closeFile, err := openDecoded(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeFile(); err != nil {
			logging.Warn("Failed to close dataset file", "error", err)
		}
	}()

	scanner := scanLines(reader)

	var drugs []entities.DrugRecord
	lineCount := 0
	skippedEmptyLines := 0
	skippedMissingColumns := 0
	skippedFormatErrors := 0

	for scanner.Scan() {
		lineCount++
		line := scanner.Text()

		// Skip empty lines silently
		if len(strings.TrimSpace(line)) == 0 {
			skippedEmptyLines++
			continue
		}

		fields := strings.Split(line, "\t")

		if len(fields) < columnCount {
			skippedMissingColumns++
			continue
		}

		// Skip a header line if present
		if lineCount == 1 && strings.EqualFold(fields[colName], "name") {
			continue
		}

		record, err := parseRecord(fields)
		if err != nil {
			logging.Debug("Skipping malformed dataset line", "line", lineCount, "error", err)
			skippedFormatErrors++
			continue
		}

		drugs = append(drugs, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in %s: %w", path, err)
	}

	if skippedMissingColumns > 0 || skippedFormatErrors > 0 {
		logging.Warn("Dataset parsed with skipped lines",
			"total_lines", lineCount,
			"empty", skippedEmptyLines,
			"missing_columns", skippedMissingColumns,
			"format_errors", skippedFormatErrors)
	}

	return buildDataset(drugs), nil
}

// parseRecord converts one TSV line into a drug record. Categorical fields
// are normalized here so every consumer sees canonical values.
func parseRecord(fields []string) (entities.DrugRecord, error) {
	name := strings.TrimSpace(fields[colName])
	if name == "" {
		return entities.DrugRecord{}, fmt.Errorf("empty drug name")
	}

	smiles := strings.TrimSpace(fields[colSmiles])
	if smiles == "" {
		return entities.DrugRecord{}, fmt.Errorf("empty structure encoding for %s", name)
	}

	year, err := strconv.Atoi(strings.TrimSpace(fields[colApprovalYear]))
	if err != nil {
		return entities.DrugRecord{}, fmt.Errorf("invalid approval year for %s: %w", name, err)
	}

	record := entities.DrugRecord{
		Name:         name,
		Smiles:       smiles,
		Class:        NormalizeCategory(fields[colClass]),
		Route:        NormalizeCategory(fields[colRoute]),
		ApprovalYear: year,
		Period:       NormalizeCategory(fields[colPeriod]),
	}

	numeric := []struct {
		col  int
		dest *float64
	}{
		{colMW, &record.MolecularWeight},
		{colLogP, &record.LogP},
		{colHBD, &record.HBD},
		{colHBA, &record.HBA},
		{colQED, &record.QED},
		{colHeavyAtoms, &record.HeavyAtoms},
		{colRotBonds, &record.RotatableBonds},
		{colAromaticRings, &record.AromaticRings},
		{colTPSA, &record.TPSA},
		{colFSP3, &record.FSP3},
	}

	for _, n := range numeric {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[n.col]), 64)
		if err != nil {
			return entities.DrugRecord{}, fmt.Errorf("invalid numeric field %d for %s: %w", n.col, name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return entities.DrugRecord{}, fmt.Errorf("non-finite numeric field %d for %s", n.col, name)
		}
		*n.dest = v
	}

	return record, nil
}

// buildDataset assembles the lookup structures over the parsed records.
func buildDataset(drugs []entities.DrugRecord) *entities.Dataset {
	byName := make(map[string]*entities.DrugRecord, len(drugs))
	periodSet := make(map[string]struct{})
	routeSet := make(map[string]struct{})

	for i := range drugs {
		key := strings.ToLower(drugs[i].Name)
		if _, exists := byName[key]; exists {
			logging.Warn("Duplicate drug name in dataset, keeping first", "name", drugs[i].Name)
			continue
		}
		byName[key] = &drugs[i]
		if drugs[i].Period != "" {
			periodSet[drugs[i].Period] = struct{}{}
		}
		if drugs[i].Route != "" {
			routeSet[drugs[i].Route] = struct{}{}
		}
	}

	// Period labels are "YYYY-YYYY" bins, so lexical order is
	// chronological order.
	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	routes := make([]string, 0, len(routeSet))
	for r := range routeSet {
		routes = append(routes, r)
	}
	sort.Strings(routes)

	return &entities.Dataset{
		Drugs:   drugs,
		ByName:  byName,
		Periods: periods,
		Routes:  routes,
	}
}
