package plots

import (
	"bytes"
	"errors"
	"testing"

	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/stats"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func scatterDataset(n int) *entities.Dataset {
	drugs := make([]entities.DrugRecord, n)
	for i := range drugs {
		drugs[i] = entities.DrugRecord{
			Name:            "Drug" + string(rune('A'+i)),
			Smiles:          "CCO",
			MolecularWeight: 150 + float64(i)*40,
			LogP:            float64(i)*0.5 - 1,
			HBD:             float64(i % 4),
			HBA:             float64(2 + i%5),
			QED:             0.3 + float64(i%5)*0.1,
			HeavyAtoms:      float64(10 + i),
			RotatableBonds:  float64(i % 6),
			AromaticRings:   float64(i % 3),
			TPSA:            40 + float64(i)*7,
			FSP3:            float64(i%10) / 10,
		}
	}
	return &entities.Dataset{Drugs: drugs}
}

func TestScatterRendersPNG(t *testing.T) {
	image, err := Scatter(scatterDataset(10), "mw", "logp", "")
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}
	if !bytes.HasPrefix(image, pngMagic) {
		t.Error("output is not a PNG image")
	}
}

func TestScatterWithColorDimension(t *testing.T) {
	image, err := Scatter(scatterDataset(10), "mw", "logp", "qed")
	if err != nil {
		t.Fatalf("Scatter with color failed: %v", err)
	}
	if !bytes.HasPrefix(image, pngMagic) {
		t.Error("output is not a PNG image")
	}
}

func TestScatterUnknownColumn(t *testing.T) {
	ds := scatterDataset(5)

	for _, c := range []struct{ x, y, color string }{
		{"bogus", "logp", ""},
		{"mw", "bogus", ""},
		{"mw", "logp", "bogus"},
	} {
		if _, err := Scatter(ds, c.x, c.y, c.color); !errors.Is(err, stats.ErrInvalidColumn) {
			t.Errorf("Scatter(%q, %q, %q): expected ErrInvalidColumn, got %v", c.x, c.y, c.color, err)
		}
	}
}

func TestScatterNotEnoughData(t *testing.T) {
	if _, err := Scatter(scatterDataset(1), "mw", "logp", ""); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := Scatter(&entities.Dataset{}, "mw", "logp", ""); !errors.Is(err, ErrNoData) {
		t.Errorf("empty dataset: expected ErrNoData, got %v", err)
	}
}

func TestDotColorProviderGradient(t *testing.T) {
	values := []float64{0, 0.5, 1}
	provider := dotColorProvider(values, true)

	low := provider(nil, nil, 0, 0, 0)
	high := provider(nil, nil, 2, 0, 0)

	if low != colorLow {
		t.Errorf("lowest value should map to the low endpoint, got %+v", low)
	}
	if high.R != colorHigh.R || high.G != colorHigh.G || high.B != colorHigh.B {
		t.Errorf("highest value should map to the high endpoint, got %+v", high)
	}

	// Constant color column falls back to the flat color
	flat := dotColorProvider([]float64{2, 2, 2}, true)
	if got := flat(nil, nil, 1, 0, 0); got != colorFlat {
		t.Errorf("flat column should use the flat color, got %+v", got)
	}
}
