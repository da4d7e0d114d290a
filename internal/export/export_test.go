package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	sweep "Alutherm/internal/calc/sweep"
	chem "Alutherm/internal/chem"
)

func sweepRows(t *testing.T) sweep.Result {
	t.Helper()
	res, err := sweep.Calculate(sweep.Input{
		Composition: chem.Composition{"CaO": 50, "Al2O3": 10, "Fe2O3": 120, "SiO2": 40},
		StartRatio:  0.5,
		EndRatio:    1.5,
		StepRatio:   0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestBuildCrossTab(t *testing.T) {
	res := sweepRows(t)
	ct := BuildCrossTab(res.Rows)

	if len(ct.Ratios) != len(res.Rows) {
		t.Fatalf("%d ratio columns, want %d", len(ct.Ratios), len(res.Rows))
	}
	if len(ct.Oxides) != len(OxideOrder) || len(ct.MassG) != len(OxideOrder) {
		t.Fatalf("cross-tab must carry the full oxide vocabulary")
	}

	// CaO is inert: every column keeps the charge value.
	caoRow := ct.MassG[0]
	for j, g := range caoRow {
		if math.Abs(g-50) > 1e-9 {
			t.Fatalf("CaO column %d = %v, want 50", j, g)
		}
	}

	// Al2O3 column must match the row's post composition.
	for j, r := range res.Rows {
		if math.Abs(ct.MassG[2][j]-r.PostComposition.Get("Al2O3")) > 1e-9 {
			t.Fatalf("Al2O3 mismatch at column %d", j)
		}
	}
}

func TestWriteCSV_Shape(t *testing.T) {
	res := sweepRows(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, res.Rows); err != nil {
		t.Fatal(err)
	}

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// sweep header + rows + separator + cross-tab header + oxide rows
	want := 1 + len(res.Rows) + 1 + 1 + len(OxideOrder)
	if len(records) != want {
		t.Fatalf("%d records, want %d", len(records), want)
	}
	if records[0][0] != "C/A" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if len(records[1]) != len(sweepHeader) {
		t.Fatalf("row width %d, want %d", len(records[1]), len(sweepHeader))
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	res := sweepRows(t)
	visc := []float64{2.1, 1.8, 1.5}

	f, err := Workbook(res.Rows, visc)
	if err != nil {
		t.Fatal(err)
	}
	for _, sheet := range []string{"Sweep", "Compositions", "Viscosity"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %s", sheet)
		}
	}
	got, err := f.GetCellValue("Viscosity", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2.1" {
		t.Fatalf("viscosity cell = %q, want 2.1 passthrough", got)
	}
}
