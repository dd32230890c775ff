package handlers

import (
	"net/http"
)

// HealthResponse is the liveness probe body
// swagger:model HealthResponse
type HealthResponse struct {
	// Status
	// default: ok
	Status string `json:"status"`
}

// NewHealthHandler returns an HTTP handler for the liveness probe.
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Service is alive"
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
