package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/matchforgego/internal/buildinfo"
	"github.com/xelth-com/matchforgego/internal/config"
	"github.com/xelth-com/matchforgego/internal/database"
	"github.com/xelth-com/matchforgego/internal/matching"
	"github.com/xelth-com/matchforgego/internal/middleware"
	"github.com/xelth-com/matchforgego/internal/storage"
	ws "github.com/xelth-com/matchforgego/internal/websocket"
)

// Router wraps the mux router with the engine and its collaborators
type Router struct {
	*mux.Router
	db     *database.DB
	cfg    *config.Config
	engine *matching.Engine
	store  *storage.Store
	hub    *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, engine *matching.Engine, store *storage.Store, hub *ws.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		engine: engine,
		store:  store,
		hub:    hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Match queries (public, read-only)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/matches/{catalog}/{sku}", r.getMatches).Methods("GET")
	api.HandleFunc("/matches/search", r.searchMatches).Methods("POST")
	api.HandleFunc("/stats", r.getStats).Methods("GET")
	api.HandleFunc("/overrides", r.listOverrides).Methods("GET")
	api.HandleFunc("/barcodes/{code}/qr", r.getBarcodeQR).Methods("GET")
	api.HandleFunc("/reports/matches.pdf", r.getMatchReport).Methods("GET")

	// Mutations require an operator token
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))
	protected.HandleFunc("/rebuild", r.triggerRebuild).Methods("POST")
	protected.HandleFunc("/overrides", r.createOverride).Methods("POST")
	protected.HandleFunc("/overrides/{id}", r.deleteOverride).Methods("DELETE")

	// Rebuild event stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"state":  r.engine.State(),
		"build":  buildinfo.Summary(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
