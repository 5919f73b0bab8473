// Package http provides the HTTP surface of the page-hits service: the route
// table, health and metrics endpoints, and the recovery, body-limit and
// rate-limit middleware.
package http

import (
	"net/http"

	"page-hits/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports liveness. Everything lives in memory, so a process
// that can answer is healthy.
type HealthHandler struct{}

func (HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}
