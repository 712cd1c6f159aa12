package api

import (
	"net/http"
)

// StatsProvider reports the loaded dataset and service counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the dataset summary.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}

// loaded reports whether the provider has a dataset in memory.
func loaded(p StatsProvider) bool {
	v, _ := p.GetStats()["loaded"].(bool)
	return v
}
