package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"csv-analyst/internal/handlers"
	"csv-analyst/internal/middleware"
)

type Options struct {
	FrontendURL  string
	MaxBodyBytes int64
	Limiter      middleware.Limiter
	Logger       *slog.Logger
}

func New(
	chatHandler *handlers.ChatHandler,
	chartHandler *handlers.ChartHandler,
	uploadHandler *handlers.UploadHandler,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	r.Use(middleware.CORS(opts.FrontendURL))

	// Health check
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBody(opts.MaxBodyBytes))

		// ──── Chat (provider-backed, rate limited) ────
		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
			}
			r.Post("/chat", chatHandler.Ask)
		})

		// ──── Chart blocks ────
		r.Post("/chart/parse", chartHandler.Parse)

		// ──── CSV upload preview ────
		r.Post("/csv/preview", uploadHandler.Preview)
	})

	return r
}
