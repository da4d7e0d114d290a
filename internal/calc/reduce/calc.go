package reduce

import (
	"fmt"
	"math"

	chem "Alutherm/internal/chem"
)

type Input struct {
	Composition chem.Composition `json:"composition"`
	// Optional cap on the Al2O3 mass the reaction may produce.
	// Absent means unconstrained.
	Al2O3BudgetG *float64 `json:"al2o3_budget_g,omitempty"`
}

type Result struct {
	AlNeededG    float64            `json:"al_needed_g"`
	Al2O3FormedG float64            `json:"al2o3_formed_g"`
	MetalsG      map[string]float64 `json:"metals_g"`
	UnreducedG   chem.Composition   `json:"unreduced_g"`
}

func Calculate(in Input) (Result, error) {
	for sym, g := range in.Composition {
		if g < 0 {
			return Result{}, fmt.Errorf("negative mass for %s", sym)
		}
	}
	if in.Al2O3BudgetG != nil && *in.Al2O3BudgetG < 0 {
		return Result{}, fmt.Errorf("negative al2o3 budget")
	}
	return Run(in.Composition, in.Al2O3BudgetG, chem.FullPriority), nil
}

// Run walks the given priority order and reduces each oxide with aluminum.
// With a budget set, the oxide at which the budget runs out is reduced only
// partially and the walk stops there: any later oxide is left untouched even
// when a rounding sliver of budget remains. Priority strictly trumps
// exhaustive budget use.
//
// The input composition is cloned per call and never mutated.
func Run(comp chem.Composition, budgetG *float64, order []string) Result {
	remaining := comp.Clone()
	res := Result{
		MetalsG:    make(map[string]float64),
		UnreducedG: make(chem.Composition),
	}

	budgetLeft := math.Inf(1)
	if budgetG != nil {
		budgetLeft = *budgetG
	}

	for _, sym := range order {
		rule, ok := chem.Rules[sym]
		if !ok {
			continue
		}
		massG := remaining[sym]
		if massG <= 0 {
			continue
		}

		mol := massG / chem.MolarMass[sym]
		al2o3FullG := mol * rule.Al2O3Mol * chem.MolarMass["Al2O3"]

		if budgetG != nil && al2o3FullG > budgetLeft {
			// Partial reduction: consume exactly the remaining budget. A
			// spent budget reduces nothing and must not leave zero rows.
			if frac := budgetLeft / al2o3FullG; frac > 0 {
				molUsed := mol * frac
				res.AlNeededG += molUsed * rule.AlMol * chem.MolarMass["Al"]
				res.Al2O3FormedG += budgetLeft
				res.MetalsG[rule.Metal] += molUsed * rule.MetalMol * chem.MolarMass[rule.Metal]
				remaining[sym] = massG * (1 - frac)
			}
			break
		}

		res.AlNeededG += mol * rule.AlMol * chem.MolarMass["Al"]
		res.Al2O3FormedG += al2o3FullG
		res.MetalsG[rule.Metal] += mol * rule.MetalMol * chem.MolarMass[rule.Metal]
		remaining[sym] = 0
		if budgetG != nil {
			budgetLeft -= al2o3FullG
		}
	}

	for _, sym := range order {
		if _, ok := chem.Rules[sym]; !ok {
			continue
		}
		if remaining[sym] > chem.ResidueFloorG {
			res.UnreducedG[sym] = remaining[sym]
		}
	}
	return res
}
