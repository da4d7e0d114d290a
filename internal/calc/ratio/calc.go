package ratio

import (
	"fmt"
	"math"

	alloy "Alutherm/internal/calc/alloy"
	reduce "Alutherm/internal/calc/reduce"
	chem "Alutherm/internal/chem"
)

type Input struct {
	Composition chem.Composition `json:"composition"`
	TargetRatio float64          `json:"target_ratio"`
}

// Row is the result for one target C/A ratio. Optional figures are nil
// when not applicable; an empty LeftoverSlag means "none". Presentation
// of those sentinels belongs to the rendering layer.
type Row struct {
	CARatio          float64          `json:"ca_ratio"`
	AlNeededG        float64          `json:"al_needed_g"`
	ExtraSilicaG     float64          `json:"extra_silica_g"`
	LeftoverSlag     []OxideMass      `json:"leftover_slag"`
	LeftoverBasicity *float64         `json:"leftover_basicity,omitempty"`
	FeSi25           *alloy.Grade     `json:"fesi25,omitempty"`
	AlloyGrades      []alloy.Grade    `json:"alloy_grades,omitempty"`
	PostComposition  chem.Composition `json:"post_composition"`
}

type OxideMass struct {
	Oxide string  `json:"oxide"`
	MassG float64 `json:"mass_g"`
}

// Only these species can realistically survive a budgeted run, given that
// the ratio priority walks iron oxides and silica first.
var leftoverOrder = []string{"FeO", "Fe2O3", "Fe3O4", "SiO2"}

type regime int

const (
	regimeBudgeted regime = iota // target above the fully-reduced ratio
	regimeMakeUp                 // target at or below it, silica added
)

// plan carries either regime's reduction outcome into the shared tail.
type plan struct {
	regime       regime
	red          reduce.Result
	extraSilicaG float64
	extraAlG     float64
	extraSiG     float64
}

// Calculate is the single-ratio ("charge table") entry point: it validates
// the ratio and derives the full-reduction baseline itself.
func Calculate(in Input) (Row, error) {
	if in.TargetRatio <= 0 {
		return Row{}, fmt.Errorf("invalid target ratio")
	}
	for sym, g := range in.Composition {
		if g < 0 {
			return Row{}, fmt.Errorf("negative mass for %s", sym)
		}
	}
	baseline := Baseline(in.Composition)
	return Compute(in.Composition, in.TargetRatio, baseline), nil
}

// Baseline is the total Al2O3 after an unconstrained full reduction:
// initial Al2O3 plus everything the reaction would form. Computed once per
// composition and shared by all rows of a sweep.
func Baseline(comp chem.Composition) float64 {
	return comp.Get("Al2O3") + reduce.Run(comp, nil, chem.FullPriority).Al2O3FormedG
}

// Compute builds the row for one target C/A ratio. The target must be
// positive (validated by the caller). A zero baseline gives an initial
// ratio of 0, so the budgeted regime is unreachable in that case and the
// CaO/baseline division never happens.
func Compute(comp chem.Composition, targetRatio, baselineAl2O3G float64) Row {
	caoG := comp.Get("CaO")
	initialAl2O3G := comp.Get("Al2O3")
	requiredTotalG := caoG / targetRatio

	initialRatio := 0.0
	if baselineAl2O3G > 0 {
		initialRatio = caoG / baselineAl2O3G
	}

	var p plan
	if targetRatio > initialRatio {
		// Less alumina wanted than full reduction would leave: cap the
		// reaction so initial + formed lands on the required total.
		budget := requiredTotalG - initialAl2O3G
		if budget < 0 {
			budget = 0
		}
		p = plan{
			regime: regimeBudgeted,
			red:    reduce.Run(comp, &budget, chem.RatioPriority),
		}
	} else {
		// Full reduction falls short of the required alumina: make up the
		// deficiency with added silica and aluminum reacting completely.
		p = plan{
			regime: regimeMakeUp,
			red:    reduce.Run(comp, nil, chem.FullPriority),
		}
		deficiencyG := requiredTotalG - (initialAl2O3G + p.red.Al2O3FormedG)
		if deficiencyG > 0 {
			rule := chem.Rules["SiO2"]
			molAl2O3 := deficiencyG / chem.MolarMass["Al2O3"]
			molSiO2 := molAl2O3 / rule.Al2O3Mol
			p.extraSilicaG = molSiO2 * chem.MolarMass["SiO2"]
			p.extraAlG = molSiO2 * rule.AlMol * chem.MolarMass["Al"]
			p.extraSiG = molSiO2 * rule.MetalMol * chem.MolarMass["Si"]
		}
	}

	row := Row{
		CARatio:      math.Round(targetRatio*100) / 100,
		AlNeededG:    p.red.AlNeededG + p.extraAlG,
		ExtraSilicaG: p.extraSilicaG,
	}

	if p.regime == regimeBudgeted {
		for _, sym := range leftoverOrder {
			if g := p.red.UnreducedG[sym]; g > 0 {
				row.LeftoverSlag = append(row.LeftoverSlag, OxideMass{Oxide: sym, MassG: g})
			}
		}
		if sio2Left := p.red.UnreducedG["SiO2"]; sio2Left > 0 {
			b := caoG / sio2Left
			row.LeftoverBasicity = &b
		}
	}

	row.PostComposition = postComposition(comp, p, requiredTotalG)

	siG := p.red.MetalsG["Si"] + p.extraSiG
	feG := p.red.MetalsG["Fe"]
	if grades := alloy.Calculate(siG, feG); grades != nil {
		fesi25 := grades[0]
		row.FeSi25 = &fesi25
		row.AlloyGrades = grades[1:]
	}
	return row
}

func postComposition(comp chem.Composition, p plan, requiredTotalG float64) chem.Composition {
	post := make(chem.Composition)
	for _, sym := range []string{"CaO", "MgO"} {
		if g, ok := comp[sym]; ok {
			post[sym] = g
		}
	}
	for sym, g := range p.red.UnreducedG {
		post[sym] = g
	}
	switch p.regime {
	case regimeBudgeted:
		post["Al2O3"] = comp.Get("Al2O3") + p.red.Al2O3FormedG
	case regimeMakeUp:
		// Everything reducible is gone; keep explicit zeros so downstream
		// tables show the full oxide vocabulary.
		for _, sym := range chem.FullPriority {
			if _, ok := post[sym]; !ok {
				post[sym] = 0
			}
		}
		post["Al2O3"] = requiredTotalG
	}
	return post
}
