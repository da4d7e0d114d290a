package alloy

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_FeSi25(t *testing.T) {
	grades := Calculate(25, 10)
	if len(grades) != len(GradePercents) {
		t.Fatalf("got %d grades, want %d", len(grades), len(GradePercents))
	}
	g := grades[0]
	if g.Percent != 25 {
		t.Fatalf("first grade is %d, want 25", g.Percent)
	}
	nearlyEqual(t, "TotalG", g.TotalG, 100)
	nearlyEqual(t, "RequiredFeG", g.RequiredFeG, 75)
	nearlyEqual(t, "ExtraFeG", g.ExtraFeG, 65)
}

func TestCalculate_ExtraFeClampsAtZero(t *testing.T) {
	// More iron already formed than FeSi45 needs.
	grades := Calculate(45, 100)
	last := grades[len(grades)-1]
	if last.Percent != 45 {
		t.Fatalf("last grade is %d, want 45", last.Percent)
	}
	nearlyEqual(t, "RequiredFeG", last.RequiredFeG, 55)
	nearlyEqual(t, "ExtraFeG", last.ExtraFeG, 0)
}

func TestCalculate_NoSiliconIsNotApplicable(t *testing.T) {
	if Calculate(0, 50) != nil {
		t.Fatal("zero silicon must report no alloy figures")
	}
}
