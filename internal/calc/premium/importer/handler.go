package importer

import (
	"encoding/json"
	"fmt"
	"net/http"

	reduce "Alutherm/internal/calc/reduce"
	chem "Alutherm/internal/chem"

	"github.com/xuri/excelize/v2"
)

type Handler struct{}

type ReduceImportResult struct {
	Count   int             `json:"count"`
	Results []reduce.Result `json:"results"`
}

// Column order of an imported sheet, one composition per row.
var columns = []string{"CaO", "MgO", "Al2O3", "FeO", "Fe2O3", "Fe3O4", "SiO2", "P2O5", "Cr2O3", "MnO", "TiO2"}

func (h *Handler) Reduce(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	var results []reduce.Result
	for i := 1; i < len(rows); i++ {
		comp, err := parseCompositionRow(rows[i])
		if err != nil {
			continue
		}
		res, err := reduce.Calculate(reduce.Input{Composition: comp})
		if err != nil {
			continue
		}
		results = append(results, res)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReduceImportResult{Count: len(results), Results: results})
}

func parseCompositionRow(row []string) (chem.Composition, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("empty row")
	}
	comp := make(chem.Composition)
	for i, sym := range columns {
		if i >= len(row) || row[i] == "" {
			continue
		}
		v, err := toFloat(row[i])
		if err != nil {
			return nil, err
		}
		if v != 0 {
			comp[sym] = v
		}
	}
	if len(comp) == 0 {
		return nil, fmt.Errorf("blank composition")
	}
	return comp, nil
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%f", &v)
	return v, err
}
