package api

import (
	"net/http"
	"time"

	"github.com/chillpill/chillpill/internal/api/respond"
)

// ServiceHealth is the aggregated view the health endpoint reports.
type ServiceHealth interface {
	IsHealthy() bool
	Components() map[string]string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	health ServiceHealth
}

func NewHealthHandler(h ServiceHealth) *HealthHandler { return &HealthHandler{health: h} }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.health.IsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"components": h.health.Components(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
