package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sweep "Alutherm/internal/calc/sweep"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string      `json:"project"`
	Author  string      `json:"author"`
	Title   string      `json:"title"`
	Notes   string      `json:"notes"`
	Sweep   sweep.Input `json:"sweep"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Aluminothermic Reduction Report"
	}

	res, err := sweep.Calculate(input.Sweep)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	widths := []float64{18, 28, 30, 56, 26, 30, 34, 34}
	headers := []string{"C/A", "Al (g)", "Extra SiO2 (g)", "Leftover slag", "Basicity", "FeSi25 (g)", "Extra Fe 25% (g)", "Extra Fe 45% (g)"}
	pdf.SetFont("Helvetica", "B", 9)
	for i, name := range headers {
		pdf.CellFormat(widths[i], 7, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range res.Rows {
		leftover := "none"
		if len(row.LeftoverSlag) > 0 {
			leftover = ""
			for i, l := range row.LeftoverSlag {
				if i > 0 {
					leftover += ", "
				}
				leftover += fmt.Sprintf("%s: %.1f g", l.Oxide, l.MassG)
			}
		}
		basicity := "n/a"
		if row.LeftoverBasicity != nil {
			basicity = fmt.Sprintf("%.3f", *row.LeftoverBasicity)
		}
		fesiTotal, fesiExtra, fe45Extra := "n/a", "n/a", "n/a"
		if row.FeSi25 != nil {
			fesiTotal = fmt.Sprintf("%.3f", row.FeSi25.TotalG)
			fesiExtra = fmt.Sprintf("%.3f", row.FeSi25.ExtraFeG)
			last := row.AlloyGrades[len(row.AlloyGrades)-1]
			fe45Extra = fmt.Sprintf("%.3f", last.ExtraFeG)
		}
		cells := []string{
			fmt.Sprintf("%.2f", row.CARatio),
			fmt.Sprintf("%.3f", row.AlNeededG),
			fmt.Sprintf("%.3f", row.ExtraSilicaG),
			leftover,
			basicity,
			fesiTotal,
			fesiExtra,
			fe45Extra,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if input.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, input.Notes, "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"reduction_report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
