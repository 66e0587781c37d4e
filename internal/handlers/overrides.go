package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/xelth-com/matchforgego/internal/middleware"
	"github.com/xelth-com/matchforgego/internal/models"
	"gorm.io/gorm"
)

// OverrideRequest represents a confirmed pair submission
type OverrideRequest struct {
	SkuA   string `json:"skuA"`
	SkuB   string `json:"skuB"`
	Reason string `json:"reason"`
}

// listOverrides returns live overrides, oldest first. Optional sku + catalog
// query params narrow the list to pairs touching one sku on that side.
func (r *Router) listOverrides(w http.ResponseWriter, req *http.Request) {
	rows, err := r.store.ListOverrides()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list overrides")
		return
	}

	if sku := req.URL.Query().Get("sku"); sku != "" {
		catalog, err := models.ParseCatalog(req.URL.Query().Get("catalog"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "catalog is required when filtering by sku")
			return
		}
		filtered := rows[:0]
		for _, o := range rows {
			if (catalog == models.CatalogA && o.SkuA == sku) ||
				(catalog == models.CatalogB && o.SkuB == sku) {
				filtered = append(filtered, o)
			}
		}
		rows = filtered
	}

	if rows == nil {
		rows = []models.MatchOverride{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"overrides": rows,
	})
}

// createOverride records a confirmed pair and refreshes the engine's view
func (r *Router) createOverride(w http.ResponseWriter, req *http.Request) {
	var ovrReq OverrideRequest
	if err := json.NewDecoder(req.Body).Decode(&ovrReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if ovrReq.SkuA == "" || ovrReq.SkuB == "" {
		respondError(w, http.StatusBadRequest, "skuA and skuB are required")
		return
	}

	override := models.MatchOverride{
		SkuA:   ovrReq.SkuA,
		SkuB:   ovrReq.SkuB,
		Reason: ovrReq.Reason,
		Author: callerUsername(req),
	}

	if err := r.store.CreateOverride(&override); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	r.refreshOverrides()
	respondJSON(w, http.StatusCreated, override)
}

// deleteOverride soft-deletes an override and refreshes the engine's view
func (r *Router) deleteOverride(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := r.store.DeleteOverride(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Override not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete override")
		return
	}

	r.refreshOverrides()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Override deleted"})
}

// refreshOverrides reloads the full override table into the engine so the
// in-memory view stays authoritative after a write.
func (r *Router) refreshOverrides() {
	rows, err := r.store.ListOverrides()
	if err != nil {
		log.Printf("⚠️ Failed to refresh overrides: %v", err)
		return
	}
	r.engine.SetOverrides(rows)
}

// callerUsername pulls the username out of the validated JWT claims.
func callerUsername(req *http.Request) string {
	claims, ok := req.Context().Value(middleware.UserContextKey).(jwt.MapClaims)
	if !ok {
		return ""
	}
	username, _ := claims["username"].(string)
	return username
}
