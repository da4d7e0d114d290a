package ratio

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

// One mole each of Fe2O3 and SiO2 over a lime/alumina base. Full reduction
// forms 101.961 + 67.974 g Al2O3, so the baseline is 179.935 g and the
// fully-reduced C/A ratio is 50 / 179.935.
func testComp() chem.Composition {
	return chem.Composition{"CaO": 50, "Al2O3": 10, "Fe2O3": 159.69, "SiO2": 60.084}
}

func TestCompute_BudgetedRegime(t *testing.T) {
	comp := testComp()
	baseline := Baseline(comp)

	row := Compute(comp, 1.0, baseline)

	// Required total Al2O3 is 50 g, of which 10 g is already present:
	// the budget of 40 g reduces 40/101.961 of the Fe2O3 and nothing else.
	frac := 40.0 / 101.961
	nearlyEqual(t, "AlNeededG", row.AlNeededG, 53.963*frac)
	nearlyEqual(t, "ExtraSilicaG", row.ExtraSilicaG, 0)

	if len(row.LeftoverSlag) != 2 {
		t.Fatalf("leftover slag = %+v, want Fe2O3 and SiO2", row.LeftoverSlag)
	}
	nearlyEqual(t, "leftover Fe2O3", row.LeftoverSlag[0].MassG, 159.69*(1-frac))
	if row.LeftoverSlag[1].Oxide != "SiO2" {
		t.Fatalf("second leftover = %s, want SiO2", row.LeftoverSlag[1].Oxide)
	}
	nearlyEqual(t, "leftover SiO2", row.LeftoverSlag[1].MassG, 60.084)

	if row.LeftoverBasicity == nil {
		t.Fatal("SiO2 remains, leftover basicity must be present")
	}
	nearlyEqual(t, "LeftoverBasicity", *row.LeftoverBasicity, 50/60.084)

	nearlyEqual(t, "post Al2O3", row.PostComposition.Get("Al2O3"), 50)
	nearlyEqual(t, "post CaO", row.PostComposition.Get("CaO"), 50)

	// No silicon was reduced, so every alloy figure is not applicable.
	if row.FeSi25 != nil || row.AlloyGrades != nil {
		t.Fatal("no Si formed, alloy figures must be absent")
	}
}

func TestCompute_MakeUpRegime(t *testing.T) {
	comp := testComp()
	baseline := Baseline(comp)

	row := Compute(comp, 0.2, baseline)

	// Required total is 250 g Al2O3; full reduction leaves a 70.065 g
	// deficiency covered by synthetic SiO2 + Al.
	molSiO2 := (70.065 / 101.961) * 1.5
	nearlyEqual(t, "ExtraSilicaG", row.ExtraSilicaG, molSiO2*60.084)
	nearlyEqual(t, "AlNeededG", row.AlNeededG, 53.963+35.975+molSiO2*(4.0/3.0)*26.9815)

	if len(row.LeftoverSlag) != 0 {
		t.Fatalf("make-up regime leaves no slag, got %+v", row.LeftoverSlag)
	}
	if row.LeftoverBasicity != nil {
		t.Fatal("no SiO2 left, basicity must be absent")
	}

	nearlyEqual(t, "post Al2O3", row.PostComposition.Get("Al2O3"), 250)
	for _, sym := range chem.FullPriority {
		if _, ok := row.PostComposition[sym]; !ok {
			t.Fatalf("post composition missing explicit entry for %s", sym)
		}
	}

	siG := 28.0855 + molSiO2*28.0855
	if row.FeSi25 == nil {
		t.Fatal("Si formed, FeSi25 figures must be present")
	}
	nearlyEqual(t, "FeSi25 total", row.FeSi25.TotalG, siG/0.25)
	nearlyEqual(t, "FeSi25 required Fe", row.FeSi25.RequiredFeG, siG/0.25*0.75)
	if len(row.AlloyGrades) != 4 {
		t.Fatalf("got %d extra grades, want 4", len(row.AlloyGrades))
	}
}

func TestCompute_RegimeBoundaryContinuity(t *testing.T) {
	comp := testComp()
	baseline := Baseline(comp)
	boundary := comp.Get("CaO") / baseline

	fromB := Compute(comp, boundary, baseline)
	fromA := Compute(comp, boundary*(1+1e-9), baseline)

	nearlyEqual(t, "AlNeededG across the boundary", fromA.AlNeededG, fromB.AlNeededG)
	nearlyEqual(t, "ExtraSilicaG at the boundary", fromB.ExtraSilicaG, 0)
}

func TestCompute_EchoesRoundedRatio(t *testing.T) {
	row := Compute(testComp(), 1.23456, Baseline(testComp()))
	nearlyEqual(t, "CARatio", row.CARatio, 1.23)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	comp := testComp()
	snapshot := comp.Clone()

	first := Compute(comp, 0.8, Baseline(comp))
	second := Compute(comp, 0.8, Baseline(comp))

	if !reflect.DeepEqual(comp, snapshot) {
		t.Fatalf("input composition mutated: %v", comp)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must give identical rows")
	}
}

func TestCalculate_RejectsNonPositiveRatio(t *testing.T) {
	for _, r := range []float64{0, -1} {
		if _, err := Calculate(Input{Composition: testComp(), TargetRatio: r}); err == nil {
			t.Fatalf("ratio %v must be rejected", r)
		}
	}
}

func TestCalculate_AlloySentinelWithoutSiAndIron(t *testing.T) {
	// High target ratio keeps the run in the budgeted regime, where no
	// make-up silica can sneak silicon in.
	comp := chem.Composition{"CaO": 40, "Al2O3": 20, "MnO": 10}

	row, err := Calculate(Input{Composition: comp, TargetRatio: 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if row.FeSi25 != nil || row.AlloyGrades != nil {
		t.Fatal("no SiO2 and no iron oxide: alloy figures must be absent")
	}
}
