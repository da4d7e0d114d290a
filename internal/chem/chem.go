// Package chem holds the reference tables shared by every calculator:
// molar masses, the aluminothermic reduction stoichiometry and the two
// priority orders. All tables are read-only for the process lifetime.
package chem

// Composition maps an oxide or element symbol to a mass in grams.
// Missing keys count as zero.
type Composition map[string]float64

// Clone returns an independent copy. Calculators must work on a clone,
// never on the caller's map.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Get reads a mass, treating absent symbols as zero. Safe on a nil map.
func (c Composition) Get(sym string) float64 {
	return c[sym]
}

// MolarMass in g/mol.
var MolarMass = map[string]float64{
	"FeO":   71.844,
	"Fe2O3": 159.69,
	"Fe3O4": 231.533,
	"SiO2":  60.084,
	"P2O5":  141.945,
	"Cr2O3": 151.99,
	"MnO":   70.937,
	"TiO2":  79.866,
	"Al2O3": 101.961,
	"CaO":   56.077,
	"MgO":   40.304,
	"Al":    26.9815,
	"Si":    28.0855,
	"Fe":    55.845,
	"P":     30.974,
	"Cr":    51.996,
	"Mn":    54.938,
	"Ti":    47.867,
}

// Rule holds the stoichiometric coefficients of
// oxide + AlMol*Al -> MetalMol*Metal + Al2O3Mol*Al2O3, per mole of oxide.
type Rule struct {
	AlMol    float64
	MetalMol float64
	Metal    string
	Al2O3Mol float64
}

// Rules is the canonical stoichiometry table, used by both the full and
// the ratio-targeted reduction.
var Rules = map[string]Rule{
	"FeO":   {AlMol: 2.0 / 3.0, MetalMol: 1, Metal: "Fe", Al2O3Mol: 1.0 / 3.0},
	"Fe2O3": {AlMol: 2, MetalMol: 2, Metal: "Fe", Al2O3Mol: 1},
	"Fe3O4": {AlMol: 8.0 / 3.0, MetalMol: 3, Metal: "Fe", Al2O3Mol: 4.0 / 3.0},
	"SiO2":  {AlMol: 4.0 / 3.0, MetalMol: 1, Metal: "Si", Al2O3Mol: 2.0 / 3.0},
	"P2O5":  {AlMol: 10.0 / 3.0, MetalMol: 2, Metal: "P", Al2O3Mol: 5.0 / 3.0},
	"Cr2O3": {AlMol: 2, MetalMol: 2, Metal: "Cr", Al2O3Mol: 1},
	"MnO":   {AlMol: 2.0 / 3.0, MetalMol: 1, Metal: "Mn", Al2O3Mol: 1.0 / 3.0},
	"TiO2":  {AlMol: 4.0 / 3.0, MetalMol: 1, Metal: "Ti", Al2O3Mol: 2.0 / 3.0},
}

// FullPriority is the walk order of an unconstrained full reduction.
var FullPriority = []string{"FeO", "Fe2O3", "Fe3O4", "SiO2", "P2O5", "Cr2O3", "MnO", "TiO2"}

// RatioPriority is the walk order of a budget-limited (ratio-targeted)
// reduction: richest iron oxides first, silica and the minor oxides after.
// The order decides which oxide absorbs a budget shortfall.
var RatioPriority = []string{"Fe2O3", "Fe3O4", "FeO", "SiO2", "P2O5", "Cr2O3", "MnO", "TiO2"}

// ResidueFloorG is the noise floor below which an unreduced residue is
// treated as fully consumed.
const ResidueFloorG = 0.001
