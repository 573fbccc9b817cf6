package models

import "csv-analyst/internal/chart"

// ChartParseRequest wraps a raw chart block body as emitted by the model.
type ChartParseRequest struct {
	Raw string `json:"raw"`
}

// ChartParseResponse carries either the normalized chart or an error message.
type ChartParseResponse struct {
	Chart *chart.Spec `json:"chart,omitempty"`
	Error string      `json:"error,omitempty"`
}

// CSVPreviewResponse is returned for an uploaded CSV file.
type CSVPreviewResponse struct {
	Filename   string `json:"filename,omitempty"`
	CSVContent string `json:"csvContent,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Error      string `json:"error,omitempty"`
}
