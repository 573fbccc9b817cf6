package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"csv-analyst/internal/middleware"
	"csv-analyst/internal/models"
)

type analyst interface {
	Answer(ctx context.Context, req models.ChatRequest) (string, error)
}

type ChatHandler struct {
	analyst analyst
	timeout time.Duration
	logger  *slog.Logger
}

// NewChatHandler wires the analyst behind POST /api/chat. A positive timeout
// bounds the whole provider round trip.
func NewChatHandler(analyst analyst, timeout time.Duration, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		analyst: analyst,
		timeout: timeout,
		logger:  logger,
	}
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Info("rejecting chat request", "err", err, "req_id", middleware.GetRequestID(r.Context()))
		writeChatError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	text, err := h.analyst.Answer(ctx, req)
	if err != nil {
		h.logger.Info("chat request failed", "err", err, "req_id", middleware.GetRequestID(r.Context()))
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}
