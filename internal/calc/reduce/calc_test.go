package reduce

import (
	"math"
	"reflect"
	"testing"

	chem "Alutherm/internal/chem"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-3 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func ptr(v float64) *float64 { return &v }

func TestRun_OneMoleFe2O3(t *testing.T) {
	comp := chem.Composition{"Fe2O3": 159.69}

	res := Run(comp, nil, chem.FullPriority)

	nearlyEqual(t, "AlNeededG", res.AlNeededG, 53.963)
	nearlyEqual(t, "Al2O3FormedG", res.Al2O3FormedG, 101.961)
	nearlyEqual(t, "Fe formed", res.MetalsG["Fe"], 111.69)
	if len(res.UnreducedG) != 0 {
		t.Fatalf("unexpected residue: %v", res.UnreducedG)
	}
}

func TestRun_OneMoleSiO2(t *testing.T) {
	comp := chem.Composition{"SiO2": 60.084}

	res := Run(comp, nil, chem.FullPriority)

	nearlyEqual(t, "AlNeededG", res.AlNeededG, 35.975)
	nearlyEqual(t, "Al2O3FormedG", res.Al2O3FormedG, 67.974)
	nearlyEqual(t, "Si formed", res.MetalsG["Si"], 28.0855)
}

// One mole-mass of every reducible oxide alone must match the rule table
// exactly: Al = AlMol*M(Al), Al2O3 = Al2O3Mol*M(Al2O3), metal = MetalMol*M(metal).
func TestRun_SingleOxideMatchesRule(t *testing.T) {
	for sym, rule := range chem.Rules {
		res := Run(chem.Composition{sym: chem.MolarMass[sym]}, nil, chem.FullPriority)
		nearlyEqual(t, sym+" Al", res.AlNeededG, rule.AlMol*chem.MolarMass["Al"])
		nearlyEqual(t, sym+" Al2O3", res.Al2O3FormedG, rule.Al2O3Mol*chem.MolarMass["Al2O3"])
		nearlyEqual(t, sym+" metal", res.MetalsG[rule.Metal], rule.MetalMol*chem.MolarMass[rule.Metal])
	}
}

func TestRun_FeAccumulatesAcrossIronOxides(t *testing.T) {
	comp := chem.Composition{"FeO": 71.844, "Fe2O3": 159.69}

	res := Run(comp, nil, chem.FullPriority)

	// 1 Fe from FeO plus 2 Fe from Fe2O3.
	nearlyEqual(t, "Fe formed", res.MetalsG["Fe"], 3*55.845)
}

func TestRun_EmptyComposition(t *testing.T) {
	res := Run(chem.Composition{}, nil, chem.FullPriority)
	if res.AlNeededG != 0 || res.Al2O3FormedG != 0 || len(res.UnreducedG) != 0 {
		t.Fatalf("empty composition should reduce to nothing: %+v", res)
	}
}

func TestRun_ZeroBudgetReducesNothing(t *testing.T) {
	comp := chem.Composition{"Fe2O3": 100, "SiO2": 50}

	res := Run(comp, ptr(0), chem.FullPriority)

	if res.AlNeededG != 0 || res.Al2O3FormedG != 0 {
		t.Fatalf("zero budget must stop before reducing anything: %+v", res)
	}
	if len(res.MetalsG) != 0 {
		t.Fatalf("zero budget must not emit zero metal rows: %+v", res.MetalsG)
	}
	nearlyEqual(t, "Fe2O3 residue", res.UnreducedG["Fe2O3"], 100)
	nearlyEqual(t, "SiO2 residue", res.UnreducedG["SiO2"], 50)
}

func TestRun_BudgetPartialReduction(t *testing.T) {
	// Full reduction of 159.69 g Fe2O3 would form 101.961 g Al2O3;
	// half the budget reduces exactly half the oxide.
	comp := chem.Composition{"Fe2O3": 159.69}

	res := Run(comp, ptr(101.961/2), chem.FullPriority)

	nearlyEqual(t, "Al2O3FormedG", res.Al2O3FormedG, 101.961/2)
	nearlyEqual(t, "AlNeededG", res.AlNeededG, 53.963/2)
	nearlyEqual(t, "Fe formed", res.MetalsG["Fe"], 111.69/2)
	nearlyEqual(t, "Fe2O3 residue", res.UnreducedG["Fe2O3"], 159.69/2)
}

// Documented quirk: when the budget runs out, the walk stops at the current
// oxide and later-priority oxides stay untouched even though the budget is
// nominally exhausted to exactly zero.
func TestRun_BudgetStopsWalkEntirely(t *testing.T) {
	comp := chem.Composition{"Fe2O3": 159.69, "SiO2": 60.084}

	// Budget covers only part of the Fe2O3.
	res := Run(comp, ptr(50), chem.FullPriority)

	nearlyEqual(t, "Al2O3FormedG", res.Al2O3FormedG, 50)
	nearlyEqual(t, "SiO2 residue", res.UnreducedG["SiO2"], 60.084)
	if res.MetalsG["Si"] != 0 {
		t.Fatalf("SiO2 must stay untouched after the cutoff, formed %v g Si", res.MetalsG["Si"])
	}
}

func TestRun_BudgetMonotonicity(t *testing.T) {
	comp := chem.Composition{"FeO": 30, "Fe2O3": 80, "SiO2": 45, "MnO": 10}
	unconstrained := Run(comp, nil, chem.FullPriority).Al2O3FormedG

	prev := -1.0
	for b := 0.0; b <= unconstrained+10; b += 5 {
		res := Run(comp, ptr(b), chem.FullPriority)
		if res.Al2O3FormedG < prev-1e-9 {
			t.Fatalf("Al2O3 formed decreased at budget %v: %v < %v", b, res.Al2O3FormedG, prev)
		}
		if res.Al2O3FormedG > b+1e-9 {
			t.Fatalf("Al2O3 formed %v exceeds budget %v", res.Al2O3FormedG, b)
		}
		if res.Al2O3FormedG > unconstrained+1e-9 {
			t.Fatalf("Al2O3 formed %v exceeds unconstrained total %v", res.Al2O3FormedG, unconstrained)
		}
		prev = res.Al2O3FormedG
	}
}

func TestRun_ResidueFloorHidesNoise(t *testing.T) {
	comp := chem.Composition{"Fe2O3": 100, "SiO2": 0.0005}

	res := Run(comp, ptr(30), chem.FullPriority)

	if _, ok := res.UnreducedG["SiO2"]; ok {
		t.Fatal("residue below the 0.001 g floor must be reported as absent")
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	comp := chem.Composition{"Fe2O3": 100, "SiO2": 50, "CaO": 40}
	snapshot := comp.Clone()

	first := Run(comp, ptr(30), chem.FullPriority)
	second := Run(comp, ptr(30), chem.FullPriority)

	if !reflect.DeepEqual(comp, snapshot) {
		t.Fatalf("input composition mutated: %v", comp)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must give identical results")
	}
}

func TestCalculate_RejectsNegativeMass(t *testing.T) {
	_, err := Calculate(Input{Composition: chem.Composition{"FeO": -1}})
	if err == nil {
		t.Fatal("expected error for negative mass")
	}
}
