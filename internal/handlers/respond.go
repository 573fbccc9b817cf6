package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"csv-analyst/internal/models"
	"csv-analyst/internal/services"
)

const msgGenericFailure = "Failed to process your request. Please try again."

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeChatError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ChatResponse{Error: message})
}

// handleServiceError maps the analyst's error taxonomy onto HTTP statuses.
// Only the typed errors' own user-facing messages are written out.
func handleServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *services.ValidationError
		tooLongErr    *services.TooLongError
		quotaErr      *services.QuotaError
	)
	switch {
	case errors.As(err, &validationErr):
		writeChatError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &tooLongErr):
		writeChatError(w, http.StatusBadRequest, tooLongErr.Message)
	case errors.As(err, &quotaErr):
		writeChatError(w, http.StatusTooManyRequests, quotaErr.Message)
	default:
		writeChatError(w, http.StatusInternalServerError, msgGenericFailure)
	}
}
