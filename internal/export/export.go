// Package export turns sweep results into the delimited formats the
// original workflow consumed: CSV, an XLSX workbook and the oxide-by-ratio
// cross-tab. Viscosity values are caller-supplied opaque numbers, carried
// through untouched.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	ratio "Alutherm/internal/calc/ratio"

	"github.com/xuri/excelize/v2"
)

// Fixed column order of the cross-tab and composition exports.
var OxideOrder = []string{"CaO", "MgO", "Al2O3", "FeO", "Fe2O3", "Fe3O4", "SiO2", "P2O5", "Cr2O3", "MnO", "TiO2"}

var sweepHeader = []string{
	"C/A", "Al needed (g)", "Extra silica (g)", "Leftover slag", "Leftover basicity",
	"FeSi25 total (g)", "FeSi25 extra Fe (g)",
	"FeSi30 extra Fe (g)", "FeSi35 extra Fe (g)", "FeSi40 extra Fe (g)", "FeSi45 extra Fe (g)",
}

// CrossTab is the post-reduction composition grid: one row per oxide, one
// column per swept ratio.
type CrossTab struct {
	Oxides []string
	Ratios []float64
	MassG  [][]float64 // [oxide][ratio]
}

func BuildCrossTab(rows []ratio.Row) CrossTab {
	ct := CrossTab{Oxides: OxideOrder}
	ct.Ratios = make([]float64, len(rows))
	for j, r := range rows {
		ct.Ratios[j] = r.CARatio
	}
	ct.MassG = make([][]float64, len(OxideOrder))
	for i, sym := range OxideOrder {
		ct.MassG[i] = make([]float64, len(rows))
		for j, r := range rows {
			ct.MassG[i][j] = r.PostComposition.Get(sym)
		}
	}
	return ct
}

func sweepRecord(row ratio.Row) []string {
	leftover := "none"
	if len(row.LeftoverSlag) > 0 {
		leftover = ""
		for i, l := range row.LeftoverSlag {
			if i > 0 {
				leftover += ", "
			}
			leftover += fmt.Sprintf("%s: %.3f g", l.Oxide, l.MassG)
		}
	}
	basicity := "n/a"
	if row.LeftoverBasicity != nil {
		basicity = fmt.Sprintf("%.3f", *row.LeftoverBasicity)
	}
	rec := []string{
		fmt.Sprintf("%.2f", row.CARatio),
		fmt.Sprintf("%.3f", row.AlNeededG),
		fmt.Sprintf("%.3f", row.ExtraSilicaG),
		leftover,
		basicity,
	}
	if row.FeSi25 == nil {
		for i := 0; i < 6; i++ {
			rec = append(rec, "n/a")
		}
		return rec
	}
	rec = append(rec,
		fmt.Sprintf("%.3f", row.FeSi25.TotalG),
		fmt.Sprintf("%.3f", row.FeSi25.ExtraFeG),
	)
	for _, g := range row.AlloyGrades {
		rec = append(rec, fmt.Sprintf("%.3f", g.ExtraFeG))
	}
	return rec
}

// WriteCSV emits the sweep table followed by the composition cross-tab,
// separated by a blank record.
func WriteCSV(w io.Writer, rows []ratio.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(sweepRecord(row)); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{""}); err != nil {
		return err
	}

	ct := BuildCrossTab(rows)
	head := []string{"Oxide"}
	for _, r := range ct.Ratios {
		head = append(head, fmt.Sprintf("C/A %.2f", r))
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for i, sym := range ct.Oxides {
		rec := []string{sym}
		for _, g := range ct.MassG[i] {
			rec = append(rec, fmt.Sprintf("%.3f", g))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook builds the XLSX export: the sweep table, the composition
// cross-tab and, when supplied, a viscosity grid aligned to the rows.
func Workbook(rows []ratio.Row, viscosity []float64) (*excelize.File, error) {
	f := excelize.NewFile()
	const sweepSheet = "Sweep"
	f.SetSheetName(f.GetSheetName(0), sweepSheet)

	if err := writeStringRow(f, sweepSheet, 1, sweepHeader); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeStringRow(f, sweepSheet, i+2, sweepRecord(row)); err != nil {
			return nil, err
		}
	}

	const compSheet = "Compositions"
	if _, err := f.NewSheet(compSheet); err != nil {
		return nil, err
	}
	ct := BuildCrossTab(rows)
	head := []interface{}{"Oxide"}
	for _, r := range ct.Ratios {
		head = append(head, r)
	}
	if err := writeRow(f, compSheet, 1, head); err != nil {
		return nil, err
	}
	for i, sym := range ct.Oxides {
		rec := []interface{}{sym}
		for _, g := range ct.MassG[i] {
			rec = append(rec, g)
		}
		if err := writeRow(f, compSheet, i+2, rec); err != nil {
			return nil, err
		}
	}

	if len(viscosity) > 0 {
		const viscSheet = "Viscosity"
		if _, err := f.NewSheet(viscSheet); err != nil {
			return nil, err
		}
		if err := writeRow(f, viscSheet, 1, []interface{}{"C/A", "Viscosity"}); err != nil {
			return nil, err
		}
		for i, v := range viscosity {
			if err := writeRow(f, viscSheet, i+2, []interface{}{rows[i].CARatio, v}); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func writeStringRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return writeRow(f, sheet, rowNum, vals)
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
