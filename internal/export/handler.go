package export

import (
	"encoding/json"
	"net/http"

	sweep "Alutherm/internal/calc/sweep"
)

type Input struct {
	Sweep sweep.Input `json:"sweep"`
	// Optional user-supplied viscosity per swept ratio, opaque numbers.
	Viscosity []float64 `json:"viscosity,omitempty"`
}

type Handler struct{}

func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sweep.csv\"")
	if err := WriteCSV(w, res.Rows); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
	}
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := sweep.Calculate(input.Sweep)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	if len(input.Viscosity) > 0 && len(input.Viscosity) != len(res.Rows) {
		http.Error(w, "Viscosity list does not match swept rows", http.StatusBadRequest)
		return
	}
	f, err := Workbook(res.Rows, input.Viscosity)
	if err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"sweep.xlsx\"")
	if err := f.Write(w); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
	}
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) (sweep.Result, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return sweep.Result{}, false
	}
	res, err := sweep.Calculate(input.Sweep)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return sweep.Result{}, false
	}
	return res, true
}
