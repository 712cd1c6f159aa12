package api

import (
	"net/http"
)

// ReloadHandler re-reads the dataset on demand.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "reload_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "reloaded"})
}
