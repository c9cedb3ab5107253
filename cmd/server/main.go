package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github-dashboard-api/internal/ai"
	"github-dashboard-api/internal/cache"
	"github-dashboard-api/internal/config"
	"github-dashboard-api/internal/dashboard"
	"github-dashboard-api/internal/github"
	"github-dashboard-api/internal/logging"
	"github-dashboard-api/internal/realtime"
	"github-dashboard-api/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init cache; an unreachable backend degrades to no caching
	store := cache.Open(ctx, cfg.Cache, logger)
	defer store.Close()
	go cache.RunJanitor(ctx, store, cfg.Cache.PurgeInterval, logger)

	gh := github.New(github.Config{
		Token:      cfg.GitHub.Token,
		APIURL:     cfg.GitHub.APIURL,
		GraphQLURL: cfg.GitHub.GraphQLURL,
		UserAgent:  cfg.GitHub.UserAgent,
	}, nil, logger)
	if !gh.HasToken() {
		logger.Warn("GITHUB_TOKEN not set; pinned repositories are disabled and rate limits are low")
	}

	gen := ai.New(ai.Config{
		APIKey: cfg.Gemini.APIKey,
		APIURL: cfg.Gemini.APIURL,
		Model:  cfg.Gemini.Model,
	}, nil, logger)
	if !gen.Configured() {
		logger.Warn("GEMINI_API_KEY not set; summaries and personas are disabled")
	}

	hub := realtime.NewHub(logger)
	svc := dashboard.NewService(store, gh, gen, hub, logger)

	ginRoutes := routes.SetupRoutes(routes.Deps{Service: svc, Hub: hub, Logger: logger})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: ginRoutes,
	}

	logger.Info("server starting", "port", cfg.Port, "cache_backend", cfg.Cache.Backend, "cache_available", store.Available())
	logger.Info("API endpoints",
		"routes", []string{
			"GET    /api/user/:username?page=N",
			"GET    /api/user/:username/activity",
			"GET    /api/user/:username/persona",
			"GET    /api/repos/:owner/:repo/summary",
			"POST   /api/summarize",
			"GET    /ws/users/:username",
			"GET    /health",
			"GET    /metrics",
		})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
