package server

import (
	"net/http"
	"time"

	"policychat/internal/version"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime"`
	Documents int       `json:"documents"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := "healthy"
	code := http.StatusOK

	docs, err := s.store.CountDocuments(r.Context())
	if err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   version.Info(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Documents: docs,
	})
}
