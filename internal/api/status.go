package api

import (
	"context"
	"net/http"
	"runtime"
	"time"
)

// statusProbeTimeout bounds each dependency probe of the status report.
const statusProbeTimeout = 2 * time.Second

// SystemStatus represents the complete status response.
type SystemStatus struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeStatus    `json:"runtime"`
	MQTT          DependencyStatus `json:"mqtt"`
	Database      DependencyStatus `json:"database"`
	Catalog       CatalogStatus    `json:"catalog"`
}

// RuntimeStatus contains Go runtime statistics.
type RuntimeStatus struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// DependencyStatus reports one infrastructure dependency.
// Status is "ok", "error" or "disabled".
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CatalogStatus contains store sizes.
type CatalogStatus struct {
	Nodes       int `json:"nodes"`
	Automations int `json:"automations"`
}

// handleStatus returns runtime statistics and dependency health.
// It always answers 200; degraded dependencies are reported in the body.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := SystemStatus{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeStatus{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		MQTT:     probe(r.Context(), s.mqtt),
		Database: probe(r.Context(), s.db),
		Catalog: CatalogStatus{
			Nodes:       s.catalog.NodeCount(),
			Automations: s.automations.Count(),
		},
	}

	writeJSON(w, http.StatusOK, status)
}

func probe(ctx context.Context, hc HealthChecker) DependencyStatus {
	if hc == nil {
		return DependencyStatus{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, statusProbeTimeout)
	defer cancel()

	if err := hc.HealthCheck(ctx); err != nil {
		return DependencyStatus{Status: "error", Error: err.Error()}
	}
	return DependencyStatus{Status: "ok"}
}
