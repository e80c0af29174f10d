// Package main is the entrypoint for the Banglify API server.
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

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/banglify/internal/ai"
	"github.com/kiranshivaraju/banglify/internal/api"
	"github.com/kiranshivaraju/banglify/internal/api/handler"
	mw "github.com/kiranshivaraju/banglify/internal/api/middleware"
	"github.com/kiranshivaraju/banglify/internal/api/response"
	"github.com/kiranshivaraju/banglify/internal/cache"
	"github.com/kiranshivaraju/banglify/internal/config"
	"github.com/kiranshivaraju/banglify/internal/extract"
	"github.com/kiranshivaraju/banglify/internal/pipeline"
	"github.com/kiranshivaraju/banglify/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A .env file is optional; real environment variables always win.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env,
		"gemini_model", cfg.AI.Gemini.Model,
		"default_gemini_key", cfg.AI.Gemini.APIKey != "",
		"default_openai_key", cfg.AI.Whisper.APIKey != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create AI providers and the job pipeline
	generator, transcriber := ai.NewProviders(cfg.AI)
	pgStore := store.NewPostgresStore(pool)

	svc := pipeline.NewService(
		pgStore,
		redisCache,
		extract.New(transcriber),
		ai.NewTranslator(generator),
		ai.NewSummarizer(generator),
		cfg.AI.ProviderTimeout,
	)
	slog.Info("job pipeline initialized", "provider_timeout", cfg.AI.ProviderTimeout.String())

	// 6. Build router with dependencies
	auth := mw.NewAuth(cfg.Server.AccessKeyHash)
	if !auth.Enabled() {
		slog.Warn("ACCESS_KEY_HASH not set, job endpoints are open")
	}

	defaults := pipeline.Credentials{
		Generation:    cfg.AI.Gemini.APIKey,
		Transcription: cfg.AI.Whisper.APIKey,
	}

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMinute),

		HealthHandler:    healthHandler(pgStore, redisCache),
		SubmitJobHandler: handler.NewSubmitJobHandler(svc, defaults, cfg.Server.MaxUploadBytes),
		GetJobHandler:    handler.NewGetJobHandler(pgStore),
		JobStatusHandler: handler.NewJobStatusHandler(pgStore, redisCache),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, response.CodeDegraded,
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
