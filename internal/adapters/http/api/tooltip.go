package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/dopingplot/internal/domain/tooltip"
)

// TooltipHandler answers pointer events with the tooltip panel state.
type TooltipHandler struct {
	deps Dependencies
}

// NewTooltipHandler creates a new tooltip handler.
func NewTooltipHandler(deps Dependencies) *TooltipHandler {
	return &TooltipHandler{deps: deps}
}

type tooltipResponse struct {
	tooltip.State
	Class string `json:"class"`
}

// HandleGetTooltip handles GET /api/tooltip/{index}?x=&y=[&leave=1].
func (h *TooltipHandler) HandleGetTooltip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/tooltip/
	path := strings.TrimPrefix(r.URL.Path, "/api/tooltip/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	index, err := strconv.Atoi(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: index %q", ErrBadRequest, path))
		return
	}
	q := r.URL.Query()
	x, err := coordinate(q.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: x: %w", ErrBadRequest, err))
		return
	}
	y, err := coordinate(q.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: y: %w", ErrBadRequest, err))
		return
	}

	var st tooltip.State
	if leave, _ := strconv.ParseBool(q.Get("leave")); leave {
		st, err = h.deps.TooltipLeave(r.Context(), index, x, y)
	} else {
		st, err = h.deps.Tooltip(r.Context(), index, x, y)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tooltipResponse{State: st, Class: st.Class()})
}

// coordinate parses a page coordinate; empty means 0.
func coordinate(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.Abs(v) > 1e9 {
		return 0, fmt.Errorf("out of range: %s", s)
	}
	return v, nil
}
