// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/dopingplot/internal/app"
	"github.com/okian/dopingplot/internal/domain/record"
	"github.com/okian/dopingplot/internal/domain/tooltip"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Points() ([]record.Point, error)
	Tooltip(ctx context.Context, index int, x, y float64) (tooltip.State, error)
	TooltipLeave(ctx context.Context, index int, x, y float64) (tooltip.State, error)
	Render(ctx context.Context, k service.Kind) ([]byte, error)
}

// Server wires HTTP routes for the chart API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	chartHandler   *ChartHandler
	recordsHandler *RecordsHandler
	tooltipHandler *TooltipHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		chartHandler:   NewChartHandler(deps),
		recordsHandler: NewRecordsHandler(deps),
		tooltipHandler: NewTooltipHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/api/tooltip/", MetricsMiddleware(s.tooltipHandler.HandleGetTooltip, "tooltip"))
	mux.HandleFunc("/chart.svg", MetricsMiddleware(s.chartHandler.HandleSVG, "chart_svg"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.chartHandler.HandlePNG, "chart_png"))
	mux.HandleFunc("/export.svg", MetricsMiddleware(s.chartHandler.HandleExportSVG, "export_svg"))
	mux.HandleFunc("/", MetricsMiddleware(s.chartHandler.HandlePage, "page"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_started", err)
	case errors.Is(err, service.ErrPointNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
