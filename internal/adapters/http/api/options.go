package api

import (
	"net/http"
)

// OptionsHandler serves the filter menu.
type OptionsHandler struct {
	deps Dependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps Dependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleGetOptions handles GET /options?tier=... requests. Leagues in the
// response cascade from the given tiers, or from every tier when absent.
func (h *OptionsHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tiers, _ := listParam(r.URL.Query(), "tier")
	menu, err := h.deps.Options(r.Context(), tiers)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, menu)
}
