package api

import (
	"net/http"

	"github.com/okian/dopingplot/internal/domain/record"
)

// RecordsHandler handles record listing requests.
type RecordsHandler struct {
	deps Dependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

type recordsResponse struct {
	Count   int            `json:"count"`
	Records []record.Point `json:"records"`
}

// HandleGetRecords handles GET /api/records requests.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, err := h.deps.Points()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Count: len(points), Records: points})
}
