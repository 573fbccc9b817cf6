package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"csv-analyst/internal/models"
	"csv-analyst/internal/services"
)

type UploadHandler struct {
	logger *slog.Logger
}

func NewUploadHandler(logger *slog.Logger) *UploadHandler {
	return &UploadHandler{logger: logger}
}

// Preview accepts a multipart "file" field and returns the normalized CSV
// text alongside the summary the chat prompt would embed for it.
func (h *UploadHandler) Preview(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.CSVPreviewResponse{Error: "File too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.CSVPreviewResponse{Error: "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.CSVPreviewResponse{Error: "Failed to read file"})
		return
	}

	// Read first 512 bytes for magic byte check
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)
	if !isAllowedCSV(mimeType, header.Filename) || !utf8.Valid(data) {
		h.logger.Info("csv upload rejected", "filename", header.Filename, "mime_type", mimeType)
		writeJSON(w, http.StatusUnsupportedMediaType, models.CSVPreviewResponse{Error: "File type not supported"})
		return
	}

	content := services.NormalizeCSVText(string(data))
	if content == "" {
		writeJSON(w, http.StatusBadRequest, models.CSVPreviewResponse{Error: services.EmptyCSV})
		return
	}

	writeJSON(w, http.StatusOK, models.CSVPreviewResponse{
		Filename:   header.Filename,
		CSVContent: content,
		Summary:    services.SummarizeCSV(content),
	})
}

func isAllowedCSV(mime, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".txt" {
		return false
	}
	return strings.HasPrefix(mime, "text/plain") ||
		strings.HasPrefix(mime, "text/csv") ||
		mime == "application/octet-stream"
}
