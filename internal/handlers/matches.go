package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/xelth-com/matchforgego/internal/matching"
	"github.com/xelth-com/matchforgego/internal/models"
)

// SearchRequest carries a raw barcode list for a batch probe
type SearchRequest struct {
	Barcodes []string `json:"barcodes"`
	Limit    int      `json:"limit"`
}

// getMatches returns ranked candidates for one sku. The catalog path segment
// names the side the sku belongs to; candidates come from the other side.
func (r *Router) getMatches(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	catalog, err := models.ParseCatalog(vars["catalog"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sku := vars["sku"]
	if sku == "" {
		respondError(w, http.StatusBadRequest, "sku is required")
		return
	}

	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	dir := matching.DirectionFromCatalog(catalog)
	candidates := r.engine.FindMatches(sku, dir, limit)
	if candidates == nil {
		candidates = []matching.Candidate{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"catalog":    catalog,
		"sku":        sku,
		"candidates": candidates,
	})
}

// searchMatches probes the published generation with a raw barcode list
func (r *Router) searchMatches(w http.ResponseWriter, req *http.Request) {
	var searchReq SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&searchReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(searchReq.Barcodes) == 0 {
		respondError(w, http.StatusBadRequest, "barcodes list is required")
		return
	}

	matches := r.engine.FindBySharedBarcodes(searchReq.Barcodes, searchReq.Limit)
	if matches == nil {
		matches = []models.ProductMatch{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// triggerRebuild queues a rebuild; concurrent requests coalesce into one
func (r *Router) triggerRebuild(w http.ResponseWriter, req *http.Request) {
	genID := r.engine.TriggerRebuild()
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":      "Rebuild queued",
		"generationId": genID,
	})
}

// getStats reports the published generation's counters and pipeline state
func (r *Router) getStats(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.engine.Stats())
}
