package handlers

import (
	"net/http"

	"github.com/dmoreira/rentdesk/internal/db"
)

// DashboardHandler serves the main-screen counters and health check.
type DashboardHandler struct {
	store *db.Store
}

// NewDashboardHandler creates the handler for /dashboard.
func NewDashboardHandler(store *db.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Stats handles GET /dashboard.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Health handles GET /health.
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "rentdesk",
	})
}
