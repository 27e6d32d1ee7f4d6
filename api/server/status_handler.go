// status_handler.go - HTTP handlers for /status and /health probes
package server

import (
	"encoding/json"
	"net/http"
)

// StatusResponse represents the JSON structure for the /status endpoint.
type StatusResponse struct {
	Status     string         `json:"status"`
	Uptime     int64          `json:"uptime_seconds"`
	AssetCount int            `json:"asset_count"`
	Version    string         `json:"version"`
	APIVersion string         `json:"api_version"`
	Metrics    ServiceMetrics `json:"metrics"`
}

// LivenessResponse for /health/liveness
type LivenessResponse struct {
	Alive bool `json:"alive"`
}

// ReadinessResponse for /health/readiness
type ReadinessResponse struct {
	Ready bool `json:"ready"`
}

// HandleStatus responds to /status with gateway status.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	metrics := s.GetServiceMetrics()

	status := "healthy"
	if !metrics.StoreReachable {
		status = "degraded"
	}

	resp := StatusResponse{
		Status:     status,
		Uptime:     metrics.UptimeSeconds,
		AssetCount: metrics.AssetCount,
		Version:    NodeVersion(),
		APIVersion: APIVersion(),
		Metrics:    metrics,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleLiveness responds to /health/liveness.
func (s *Server) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{Alive: true}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleReadiness responds to /health/readiness. Ready means the durable
// store answers.
func (s *Server) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := false
	if s.store != nil {
		if _, err := s.store.Has("readiness-probe"); err == nil {
			ready = true
		}
	}
	resp := ReadinessResponse{Ready: ready}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
