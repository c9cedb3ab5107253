package cache

import (
	"context"
	"log/slog"

	"github-dashboard-api/internal/config"
	"github-dashboard-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// Open builds the configured backend once at process start. When the
// backend cannot be reached the process gets a NullStore for its whole
// lifetime; there is no reconnect.
func Open(ctx context.Context, cfg config.Cache, logger *slog.Logger) Store {
	logger = logger.With("component", "cache", "backend", cfg.Backend)

	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		store = NewMemoryStore()
	case config.BackendBadger:
		store, err = OpenBadger(cfg.BadgerPath, logger)
	case config.BackendSQLite:
		db, openErr := database.Open(cfg.SQLitePath)
		if openErr != nil {
			err = openErr
			break
		}
		store = NewSQLStore(db, logger)
	default:
		store, err = NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	}
	if err != nil {
		logger.Error("cache unavailable, continuing without caching", "error", err)
		return NullStore{}
	}
	logger.Info("cache connected")
	return store
}
