// Package entities defines the data structures for the chemspace API.
package entities

// DrugRecord is one approved drug with its precomputed physicochemical
// descriptors. Records are immutable after the dataset load.
type DrugRecord struct {
	Name           string  `json:"name"`
	Smiles         string  `json:"smiles"`
	Class          string  `json:"class"`
	Route          string  `json:"route"`
	ApprovalYear   int     `json:"approval_year"`
	Period         string  `json:"period"`
	MolecularWeight float64 `json:"mw"`
	LogP           float64 `json:"logp"`
	HBD            float64 `json:"hbd"`
	HBA            float64 `json:"hba"`
	QED            float64 `json:"qed"`
	HeavyAtoms     float64 `json:"heavy_atoms"`
	RotatableBonds float64 `json:"rot_bonds"`
	AromaticRings  float64 `json:"aromatic_rings"`
	TPSA           float64 `json:"tpsa"`
	FSP3           float64 `json:"fsp3"`
}

// PassesLipinski reports whether the record satisfies the rule-of-five
// screen (MW <= 500, HBD <= 5, HBA <= 10, LogP <= 5).
func (d *DrugRecord) PassesLipinski() bool {
	return d.MolecularWeight <= 500 &&
		d.HBD <= 5 &&
		d.HBA <= 10 &&
		d.LogP <= 5
}

// Dataset is the ordered, read-only collection of drug records served by the
// API, together with the lookup structures built once at load time.
type Dataset struct {
	Drugs   []DrugRecord
	ByName  map[string]*DrugRecord // key is the lowercased drug name
	Periods []string               // distinct period labels in chronological order
	Routes  []string               // distinct normalized administration routes
}

// DescriptorRange is a [Min,Max] reference pair used to rescale a descriptor
// for display. It is not a validity constraint on the data.
type DescriptorRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
