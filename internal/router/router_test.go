package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"csv-analyst/internal/handlers"
	"csv-analyst/internal/middleware"
	"csv-analyst/internal/mock"
	"csv-analyst/internal/services"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

func newTestRouter(limiter middleware.Limiter, maxBody int64) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyst := services.NewAnalystService(mock.Returning("# Ok\n\nnext steps: none"), services.WordEstimator{}, logger)
	return New(
		handlers.NewChatHandler(analyst, time.Second, logger),
		handlers.NewChartHandler(),
		handlers.NewUploadHandler(logger),
		Options{
			FrontendURL:  "http://localhost:3000",
			MaxBodyBytes: maxBody,
			Limiter:      limiter,
			Logger:       logger,
		},
	)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(nil, 1<<20)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/chat", `{"csvContent":"a\n1","question":"q"}`, http.StatusOK},
		{http.MethodPost, "/api/chart/parse", `{"raw":"{\"type\":\"bar\",\"chartData\":[{\"name\":\"a\",\"value\":1}]}"}`, http.StatusOK},
		{http.MethodPost, "/api/csv/preview", "", http.StatusBadRequest},
		{http.MethodGet, "/api/chat", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_RateLimitsChatOnly(t *testing.T) {
	r := newTestRouter(denyAll{}, 1<<20)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"csvContent":"a","question":"q"}`)))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	r := newTestRouter(nil, 16)

	body := `{"csvContent":"` + strings.Repeat("x", 64) + `","question":"q"}`
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body")
}
