package handlers

import (
	"net/http"

	"github.com/xelth-com/matchforgego/internal/services/report"
)

// getMatchReport renders the published generation as a printable PDF
func (r *Router) getMatchReport(w http.ResponseWriter, req *http.Request) {
	gen := r.engine.CurrentGeneration()
	if gen == nil {
		respondError(w, http.StatusNotFound, "No generation published yet")
		return
	}

	overrides, err := r.store.ListOverrides()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load overrides")
		return
	}

	pdf, err := report.GenerateMatchReport(gen.Meta, gen.Set.Rows(), overrides)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="matches.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
