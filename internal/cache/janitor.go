package cache

import (
	"context"
	"log/slog"
	"time"
)

// Purger is implemented by backends without native expiry.
type Purger interface {
	PurgeExpired(ctx context.Context) int64
}

// RunJanitor purges expired entries every interval until ctx is done.
// It returns immediately when store expires entries on its own.
func RunJanitor(ctx context.Context, store Store, interval time.Duration, logger *slog.Logger) {
	p, ok := store.(Purger)
	if !ok || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.PurgeExpired(ctx); n > 0 {
				logger.Debug("purged expired cache entries", "count", n)
			}
		}
	}
}
