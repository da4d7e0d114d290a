package sweep

import (
	"math"
	"reflect"
	"testing"

	chem "Alutherm/internal/chem"
)

func testComp() chem.Composition {
	return chem.Composition{"CaO": 50, "Al2O3": 10, "Fe2O3": 120, "SiO2": 40}
}

func TestCalculate_OrderAndCount(t *testing.T) {
	res, err := Calculate(Input{
		Composition: testComp(),
		StartRatio:  1.0,
		EndRatio:    2.0,
		StepRatio:   0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.0, 1.5, 2.0}
	if len(res.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(res.Rows), len(want))
	}
	for i, r := range want {
		if math.Abs(res.Rows[i].CARatio-r) > 1e-9 {
			t.Fatalf("row %d ratio = %v, want %v", i, res.Rows[i].CARatio, r)
		}
	}
}

func TestCalculate_AbsorbsFloatDrift(t *testing.T) {
	// 0.1 steps accumulate binary error; the inclusive end bound must still
	// produce the final row.
	res, err := Calculate(Input{
		Composition: testComp(),
		StartRatio:  0.5,
		EndRatio:    1.0,
		StepRatio:   0.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(res.Rows))
	}
	last := res.Rows[len(res.Rows)-1]
	if math.Abs(last.CARatio-1.0) > 1e-9 {
		t.Fatalf("last ratio = %v, want 1.0", last.CARatio)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{Composition: testComp(), StartRatio: 0.4, EndRatio: 1.6, StepRatio: 0.2}
	first, err := Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical sweeps must produce identical rows")
	}
}

func TestCalculate_RejectsBadRanges(t *testing.T) {
	bad := []Input{
		{Composition: testComp(), StartRatio: 0, EndRatio: 1, StepRatio: 0.1},
		{Composition: testComp(), StartRatio: 1, EndRatio: 0, StepRatio: 0.1},
		{Composition: testComp(), StartRatio: 1, EndRatio: 2, StepRatio: 0},
		{Composition: testComp(), StartRatio: 2, EndRatio: 1, StepRatio: 0.1},
	}
	for i, in := range bad {
		if _, err := Calculate(in); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
