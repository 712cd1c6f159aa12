package api

import (
	"net/http"

	service "github.com/okian/playerscore/internal/app"
	"github.com/okian/playerscore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness metrics and dataset readiness.
type HealthHandler struct {
	stats   StatsProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{
		stats:   stats,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz with the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleReady handles GET /readyz. It answers 503 until a dataset is loaded.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	const op = "api.ready"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !loaded(h.stats) {
		writeError(w, http.StatusServiceUnavailable, "not_loaded", NewKind(op, service.ErrNotLoaded))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ready"})
}
