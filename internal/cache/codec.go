package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github-dashboard-api/internal/metrics"
)

// Codec reads and writes typed values through a Store. An entry that fails
// to decode is deleted and reported as a miss.
type Codec struct {
	Store  Store
	Logger *slog.Logger
}

// NewCodec wraps a Store. A nil logger discards.
func NewCodec(store Store, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Codec{Store: store, Logger: logger}
}

// GetJSON decodes the entry at key into dst.
func (c *Codec) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, ok := c.lookup(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.discard(ctx, key, err)
		return false
	}
	c.hit(key)
	return true
}

// SetJSON encodes v and stores it for ttl.
func (c *Codec) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.Logger.Error("cache encode failed", "key", key, "error", err)
		return
	}
	c.set(ctx, key, raw, ttl)
}

// GetInt reads a decimal integer.
func (c *Codec) GetInt(ctx context.Context, key string) (int, bool) {
	raw, ok := c.lookup(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		c.discard(ctx, key, err)
		return 0, false
	}
	c.hit(key)
	return n, true
}

// SetInt stores n as a decimal integer.
func (c *Codec) SetInt(ctx context.Context, key string, n int, ttl time.Duration) {
	c.set(ctx, key, []byte(strconv.Itoa(n)), ttl)
}

// GetString reads an opaque text blob. Empty blobs are treated as corrupt.
func (c *Codec) GetString(ctx context.Context, key string) (string, bool) {
	raw, ok := c.lookup(ctx, key)
	if !ok {
		return "", false
	}
	if len(raw) == 0 {
		c.discard(ctx, key, errEmptyEntry)
		return "", false
	}
	c.hit(key)
	return string(raw), true
}

// SetString stores s verbatim.
func (c *Codec) SetString(ctx context.Context, key, s string, ttl time.Duration) {
	c.set(ctx, key, []byte(s), ttl)
}

var errEmptyEntry = errors.New("empty cache entry")

func (c *Codec) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, ok := c.Store.Get(ctx, key)
	if !ok {
		metrics.CacheLookups.WithLabelValues(keyClass(key), "miss").Inc()
		c.Logger.Debug("cache miss", "key", key)
		return nil, false
	}
	return raw, true
}

func (c *Codec) hit(key string) {
	metrics.CacheLookups.WithLabelValues(keyClass(key), "hit").Inc()
	c.Logger.Debug("cache hit", "key", key)
}

func (c *Codec) discard(ctx context.Context, key string, err error) {
	metrics.CacheLookups.WithLabelValues(keyClass(key), "corrupt").Inc()
	c.Logger.Warn("discarding malformed cache entry", "key", key, "error", err)
	c.Store.Delete(ctx, key)
}

func (c *Codec) set(ctx context.Context, key string, raw []byte, ttl time.Duration) {
	if !c.Store.Available() {
		return
	}
	c.Store.Set(ctx, key, raw, ttl)
	metrics.CacheWrites.WithLabelValues(keyClass(key)).Inc()
}

func keyClass(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}
