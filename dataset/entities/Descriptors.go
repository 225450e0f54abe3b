package entities

import "fmt"

// DescriptorAccessor reads one numeric descriptor from a record.
type DescriptorAccessor func(*DrugRecord) float64

// DescriptorNames lists every numeric descriptor in table order. The
// registry below must stay in sync with this list; both are checked at
// startup by ValidateRegistry.
var DescriptorNames = []string{
	"mw",
	"logp",
	"hbd",
	"hba",
	"qed",
	"heavy_atoms",
	"rot_bonds",
	"aromatic_rings",
	"tpsa",
	"fsp3",
}

// descriptorRegistry maps a descriptor name to its typed accessor, so that
// chart and statistics requests on unknown columns fail fast instead of
// silently producing empty results.
var descriptorRegistry = map[string]DescriptorAccessor{
	"mw":             func(d *DrugRecord) float64 { return d.MolecularWeight },
	"logp":           func(d *DrugRecord) float64 { return d.LogP },
	"hbd":            func(d *DrugRecord) float64 { return d.HBD },
	"hba":            func(d *DrugRecord) float64 { return d.HBA },
	"qed":            func(d *DrugRecord) float64 { return d.QED },
	"heavy_atoms":    func(d *DrugRecord) float64 { return d.HeavyAtoms },
	"rot_bonds":      func(d *DrugRecord) float64 { return d.RotatableBonds },
	"aromatic_rings": func(d *DrugRecord) float64 { return d.AromaticRings },
	"tpsa":           func(d *DrugRecord) float64 { return d.TPSA },
	"fsp3":           func(d *DrugRecord) float64 { return d.FSP3 },
}

// Descriptor returns the accessor for a descriptor name, or false if the
// name is not a numeric descriptor column.
func Descriptor(name string) (DescriptorAccessor, bool) {
	acc, ok := descriptorRegistry[name]
	return acc, ok
}

// ValidateRegistry checks that DescriptorNames and the accessor registry
// agree. Called once at startup so a bad registry edit fails the boot, not a
// chart render.
func ValidateRegistry() error {
	if len(DescriptorNames) != len(descriptorRegistry) {
		return fmt.Errorf("descriptor registry mismatch: %d names, %d accessors",
			len(DescriptorNames), len(descriptorRegistry))
	}
	for _, name := range DescriptorNames {
		if _, ok := descriptorRegistry[name]; !ok {
			return fmt.Errorf("descriptor %q has no accessor", name)
		}
	}
	return nil
}

// LipinskiDescriptors is the fixed five-axis descriptor set drawn on the
// per-drug radar chart, with the display reference ranges used to normalize
// each axis. Order matters: it is the axis order on the chart.
var LipinskiDescriptors = []string{"HBD", "MW", "QED", "LogP", "HBA"}

// LipinskiRanges holds the display min/max per radar axis, in the same order
// as LipinskiDescriptors.
var LipinskiRanges = []DescriptorRange{
	{Min: 0, Max: 5},
	{Min: 100, Max: 500},
	{Min: 0, Max: 1},
	{Min: 0, Max: 5},
	{Min: 0, Max: 10},
}

// LipinskiValues extracts the radar-axis values from a record, in
// LipinskiDescriptors order.
func LipinskiValues(d *DrugRecord) []float64 {
	return []float64{d.HBD, d.MolecularWeight, d.QED, d.LogP, d.HBA}
}
