package api

import (
	"net/http"
	"strconv"

	"github.com/okian/playerscore/internal/adapters/workbook"
	"github.com/okian/playerscore/internal/domain/filter"
)

// PlayersHandler serves ranked player queries and their downloads.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

func (h *PlayersHandler) criteria(op string, r *http.Request) (filter.Criteria, error) {
	defaults, err := h.deps.DefaultCriteria(r.Context())
	if err != nil {
		return filter.Criteria{}, Wrap(op, err)
	}
	c, err := parseCriteria(r.URL.Query(), defaults)
	if err != nil {
		return filter.Criteria{}, Wrap(op, err)
	}
	return c, nil
}

// HandleGetPlayers handles GET /players requests.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := h.criteria(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Query(r.Context(), c, limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExport handles GET /players/export?format=xlsx|csv requests. The
// download carries the full filtered result.
func (h *PlayersHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	format, err := workbook.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	c, err := h.criteria(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	body, err := h.deps.Export(r.Context(), c, format)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
