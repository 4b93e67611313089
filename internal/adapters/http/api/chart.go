package api

import (
	"net/http"
	"strconv"

	service "github.com/okian/dopingplot/internal/app"
)

// ChartHandler serves the plot renderings.
type ChartHandler struct {
	deps Dependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandlePage handles GET / with the interactive HTML page.
func (h *ChartHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}
	h.serve(w, r, service.KindPage)
}

// HandleSVG handles GET /chart.svg with the bare surface.
func (h *ChartHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, service.KindSVG)
}

// HandlePNG handles GET /chart.png.
func (h *ChartHandler) HandlePNG(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, service.KindPNG)
}

// HandleExportSVG handles GET /export.svg.
func (h *ChartHandler) HandleExportSVG(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, service.KindExportSVG)
}

func (h *ChartHandler) serve(w http.ResponseWriter, r *http.Request, k service.Kind) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.Render(r.Context(), k)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", k.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}
