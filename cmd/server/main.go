package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csv-analyst/internal/config"
	"csv-analyst/internal/database"
	"csv-analyst/internal/handlers"
	"csv-analyst/internal/logging"
	"csv-analyst/internal/middleware"
	"csv-analyst/internal/router"
	"csv-analyst/internal/services"
)

func main() {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogJSON)
	slog.SetDefault(logger)
	logger.Info("starting CSV analyst", "env", cfg.Env, "model", cfg.GeminiModel, "client", cfg.GeminiClient)

	ctx := context.Background()

	// ──── Step 2: Initialize Gemini Client ────
	var generator services.Generator
	switch cfg.GeminiClient {
	case "genai":
		svc, err := services.NewGenAIService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs, logger)
		if err != nil {
			logger.Error("genai client initialization failed", "err", err)
			os.Exit(1)
		}
		generator = svc
	default:
		svc, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs, logger)
		if err != nil {
			logger.Error("gemini client initialization failed", "err", err)
			os.Exit(1)
		}
		defer svc.Close()
		generator = svc
	}
	logger.Info("gemini client initialized")

	// ──── Step 3: Token Estimator ────
	estimator, err := services.NewTokenEstimator(cfg.TokenEstimator)
	if err != nil {
		logger.Warn("token estimator unavailable; using word estimate", "kind", cfg.TokenEstimator, "err", err)
		estimator = services.WordEstimator{}
	}

	// ──── Step 4: Rate Limiter ────
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis connection failed", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimitPerMin, time.Minute)
		logger.Info("rate limiter using redis", "per_minute", cfg.RateLimitPerMin)
	} else {
		memLimiter := middleware.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute)
		defer memLimiter.Close()
		limiter = memLimiter
		logger.Info("rate limiter in memory", "per_minute", cfg.RateLimitPerMin)
	}

	// ──── Step 5: Handlers & Router ────
	analyst := services.NewAnalystService(generator, estimator, logger)
	chatHandler := handlers.NewChatHandler(analyst, cfg.GeminiTimeout, logger)
	chartHandler := handlers.NewChartHandler()
	uploadHandler := handlers.NewUploadHandler(logger)

	r := router.New(chatHandler, chartHandler, uploadHandler, router.Options{
		FrontendURL:  cfg.FrontendURL,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Limiter:      limiter,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.GeminiTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	go func() { errChan <- server.ListenAndServe() }()
	logger.Info("CSV analyst ready", "addr", "http://localhost:"+cfg.Port, "api", "http://localhost:"+cfg.Port+"/api/chat")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	} else {
		logger.Info("server stopped")
	}
}
