package handlers

import (
	"encoding/json"
	"net/http"

	"csv-analyst/internal/chart"
	"csv-analyst/internal/models"
)

type ChartHandler struct{}

func NewChartHandler() *ChartHandler {
	return &ChartHandler{}
}

// Parse normalizes a raw chart block body the same way the client's
// fallback parser does, then validates it against the chart schema.
func (h *ChartHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req models.ChartParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChartParseResponse{Error: "Invalid request body"})
		return
	}

	spec, err := chart.Parse(req.Raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChartParseResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.ChartParseResponse{Chart: spec})
}
