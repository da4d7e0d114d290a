package factsage

import (
	"net/http"
)

const maxUploadSize = 50 << 20 // 50MB, exports get big

type Handler struct{}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	results, err := Analyze(file, 3)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"analysis.csv\"")
	if err := WriteCSV(w, results); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}
