package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/dashboard.html
var staticFS embed.FS

// dashboardPage is the single-page UI that drives /options, /players and
// /players/export.
const dashboardPage = "static/dashboard.html"

type dashboardHandler struct {
	page []byte
}

func newDashboardHandler() *dashboardHandler {
	page, err := fs.ReadFile(staticFS, dashboardPage)
	if err != nil {
		panic(err)
	}
	return &dashboardHandler{page: page}
}

// HandleDashboard handles GET /dashboard requests.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(h.page)
	}
}
