package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness checks.
type HealthHandler struct {
	started time.Time
	version string
}

// NewHealthHandler creates a health handler stamped with the build version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		started: time.Now().UTC(),
		version: version,
	}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.GetHealth)
}

// GetHealth reports service status and uptime.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
