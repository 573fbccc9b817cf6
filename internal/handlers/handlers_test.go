package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv-analyst/internal/mock"
	"csv-analyst/internal/models"
	"csv-analyst/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newChatHandler(gen services.Generator) *ChatHandler {
	analyst := services.NewAnalystService(gen, services.WordEstimator{}, discardLogger())
	return NewChatHandler(analyst, time.Second, discardLogger())
}

func postChat(t *testing.T, h *ChatHandler, body any) (*httptest.ResponseRecorder, models.ChatResponse) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return rr, resp
}

// ─── Chat Handler Tests ───

func TestChatHandler_Success(t *testing.T) {
	gen := mock.Returning("The East region is growing fastest.")
	h := newChatHandler(gen)

	rr, resp := postChat(t, h, map[string]any{
		"csvContent": "region,revenue\nEast,10\nWest,8",
		"question":   "Which region grows fastest?",
		"history": []map[string]any{
			{"role": "user", "content": "hi", "timestamp": 1700000000000},
			{"role": "assistant", "content": "hello", "timestamp": 1700000000500},
		},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Empty(t, resp.Error)
	assert.True(t, strings.HasPrefix(resp.Text, "# Analysis\n\nThe East region"))
	assert.Contains(t, resp.Text, "Follow-up")
	assert.Equal(t, 1, gen.Calls)
}

func TestChatHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing question", map[string]any{"csvContent": "a,b\n1,2"}},
		{"missing csv", map[string]any{"question": "why?"}},
		{"empty body", map[string]any{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := mock.Returning("unused")
			rr, resp := postChat(t, newChatHandler(gen), tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Missing required fields", resp.Error)
			assert.Empty(t, resp.Text)
			assert.Equal(t, 0, gen.Calls)
		})
	}
}

func TestChatHandler_InvalidJSON(t *testing.T) {
	gen := mock.Returning("unused")
	rr, resp := postChat(t, newChatHandler(gen), `{"csvContent": `)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", resp.Error)
	assert.Equal(t, 0, gen.Calls)
}

func TestChatHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		gen        *mock.Generator
		wantStatus int
		wantError  string
	}{
		{
			name:       "quota exceeded",
			gen:        mock.Failing(&services.ProviderError{StatusCode: 429, Err: errors.New("Resource has been exhausted")}),
			wantStatus: http.StatusTooManyRequests,
			wantError:  "API quota exceeded. Please try again in a few minutes.",
		},
		{
			name:       "provider length complaint",
			gen:        mock.Failing(&services.ProviderError{StatusCode: 400, Err: errors.New("The input token count exceeds the maximum number of tokens allowed")}),
			wantStatus: http.StatusBadRequest,
			wantError:  "The CSV file or question is too long. Please try a smaller file or a more specific question.",
		},
		{
			name:       "response over budget",
			gen:        mock.Returning("# Long\n\nnext steps " + strings.Repeat("data ", 2000)),
			wantStatus: http.StatusBadRequest,
			wantError:  "Response too long. Please try a more specific question.",
		},
		{
			name:       "unclassified",
			gen:        mock.Failing(errors.New("secret internal detail")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process your request. Please try again.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, resp := postChat(t, newChatHandler(tc.gen), map[string]any{
				"csvContent": "a,b\n1,2",
				"question":   "summarize",
			})

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, tc.wantError, resp.Error)
			assert.Empty(t, resp.Text)
			assert.NotContains(t, rr.Body.String(), "secret internal detail")
		})
	}
}

func TestChatHandler_AppliesTimeout(t *testing.T) {
	var hasDeadline bool
	gen := &mock.Generator{
		GenerateFn: func(ctx context.Context, prompt string, safety []services.SafetySetting) (string, error) {
			_, hasDeadline = ctx.Deadline()
			return "# Ok\n\nfollow-up: none", nil
		},
	}

	rr, _ := postChat(t, newChatHandler(gen), map[string]any{"csvContent": "a\n1", "question": "q"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, hasDeadline)
}

// ─── Chart Handler Tests ───

func TestChartHandler_Parse(t *testing.T) {
	h := NewChartHandler()

	tests := []struct {
		name       string
		raw        string
		wantStatus int
	}{
		{"valid", `{"type":"pie","chartData":[{"name":"a","value":1}]}`, http.StatusOK},
		{"over-escaped", `{\"type\":\"line\",\"chartData\":\[{\"name\":\"a\",\"value\":1}\]}`, http.StatusOK},
		{"unknown type", `{"type":"donut","chartData":[{"name":"a","value":1}]}`, http.StatusBadRequest},
		{"garbage", `nope`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(models.ChartParseRequest{Raw: tc.raw})
			req := httptest.NewRequest(http.MethodPost, "/api/chart/parse", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			h.Parse(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			if tc.wantStatus == http.StatusOK {
				assert.Contains(t, resp, "chart")
				assert.NotContains(t, resp, "error")
			} else {
				assert.Contains(t, resp, "error")
				assert.NotContains(t, resp, "chart")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
