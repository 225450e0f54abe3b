package handlers

import "net/http"

// Static educational content for the overview and glossary tabs.

const overviewText = `Interactive platform for exploring the chemical space of approved drugs, ` +
	`built for medicinal chemistry students. The dataset covers physicochemical descriptors, ` +
	`administration routes and approval periods, and supports scatter plots, per-drug radar ` +
	`charts against the Lipinski reference ranges, route-filtered descriptive statistics and ` +
	`period-wise distributional comparisons with post-hoc significance testing.`

type glossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

var glossary = []glossaryEntry{
	{"cLogP", "Calculated partition coefficient estimating a molecule's lipophilicity: the log ratio of its concentration between octanol and water phases."},
	{"Heavy atoms", "All non-hydrogen atoms of a molecule. They carry most of the molecular mass and chemistry."},
	{"HBA", "Hydrogen bond acceptors: functional groups able to accept a hydrogen bond, typically through electronegative atoms like oxygen or nitrogen."},
	{"HBD", "Hydrogen bond donors: functional groups able to donate a hydrogen atom to a hydrogen bond, typically -OH or -NH2."},
	{"Rotatable bonds", "Single bonds between two non-terminal atoms that allow free rotation, giving the molecule conformational flexibility."},
	{"Fsp3", "Fraction of sp3-hybridized carbon atoms. Higher values indicate a more three-dimensional molecule."},
	{"Aromatic rings", "Count of aromatic ring systems: cyclic structures with alternating bonds that confer stability and specific electronic properties."},
	{"TPSA", "Topological polar surface area: the summed surface of atoms able to form hydrogen bonds, used to predict membrane permeability."},
	{"QED", "Quantitative estimate of drug-likeness: a composite [0,1] metric over idealized physicochemical parameters reflecting how consistent a molecule is with known oral drugs."},
	{"Lipinski's rule of five", "A rule-of-thumb screen for oral drug-likeness: MW <= 500, HBD <= 5, HBA <= 10, cLogP <= 5."},
	{"Period", "A multi-year time bin grouping drugs by approval era."},
	{"Post-hoc pairwise test", "A statistical comparison between every pair of groups, with correction for the resulting multiple comparisons."},
}

// Overview serves the project presentation text
func Overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		RespondWithJSON(w, r, http.StatusOK, map[string]string{"overview": overviewText})
	}
}

// Glossary serves the descriptor glossary
func Glossary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		RespondWithJSON(w, r, http.StatusOK, glossary)
	}
}
