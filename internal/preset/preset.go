// Package preset ships the built-in sample slag compositions used to
// prefill the input form.
package preset

import (
	"encoding/json"
	"net/http"

	chem "Alutherm/internal/chem"
)

type Sample struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Composition chem.Composition `json:"composition"`
}

var Samples = []Sample{
	{
		ID:   "ladle-slag",
		Name: "Ladle furnace slag",
		Composition: chem.Composition{
			"CaO": 550, "Al2O3": 80, "SiO2": 180, "MgO": 70,
			"FeO": 12, "MnO": 4, "TiO2": 3,
		},
	},
	{
		ID:   "red-mud",
		Name: "Bauxite residue (red mud)",
		Composition: chem.Composition{
			"Fe2O3": 380, "Al2O3": 180, "SiO2": 90, "CaO": 60,
			"TiO2": 55, "P2O5": 2,
		},
	},
	{
		ID:   "mill-scale",
		Name: "Mill scale blend",
		Composition: chem.Composition{
			"Fe3O4": 520, "FeO": 280, "Fe2O3": 140, "SiO2": 30,
			"CaO": 20, "MnO": 6, "Cr2O3": 4,
		},
	},
}

type Handler struct{}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Samples)
}
