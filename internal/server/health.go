package server

import (
	"net/http"
	"time"
)

// HealthStatus represents the reported health of the service.
type HealthStatus string

// HealthStatusHealthy is the only status this service ever reports: there
// are no downstream components to degrade, so /health never fails.
const HealthStatusHealthy HealthStatus = "healthy"

// healthResp is the JSON body of GET /health.
type healthResp struct {
	Status HealthStatus `json:"status"`
	Uptime float64      `json:"uptime"`
}

// healthHandler handles GET /health: fixed status plus process uptime in
// seconds. No side effects.
func (s *Server) healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, healthResp{
			Status: HealthStatusHealthy,
			Uptime: time.Since(s.start).Seconds(),
		})
	})
}
