// Package dashboard holds the read-through aggregation functions behind
// every dashboard view. Each function checks the cache, falls through to
// the profile or AI API on a miss, normalizes, writes back with its own
// TTL and returns. Failures are absorbed into absence values here; only
// Profile reports an error, and AI output travels as a GenerationResult.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github-dashboard-api/internal/cache"
	"github-dashboard-api/internal/models"
)

// Profile outcomes.
var (
	ErrNotFound    = errors.New("profile not found")
	ErrUnavailable = errors.New("profile unavailable")
)

// Sections announced to the Notifier after a fresh writeback.
const (
	SectionProfile = "profile"
	SectionRepos   = "repos"
	SectionPinned  = "pinned"
	SectionStreak  = "streak"
	SectionSummary = "summary"
	SectionPersona = "persona"
)

// Upstream is the profile API as the aggregation layer sees it.
type Upstream interface {
	User(ctx context.Context, name string) (models.Profile, error)
	Repos(ctx context.Context, name string, page int) ([]models.RepositorySummary, error)
	Pinned(ctx context.Context, name string) ([]models.RepositorySummary, error)
	Events(ctx context.Context, name string, page int) ([]models.Event, error)
	Readme(ctx context.Context, owner, repo string) (string, error)
}

// Generator is the text-generation API.
type Generator interface {
	Generate(ctx context.Context, prompt string) models.GenerationResult
	Configured() bool
}

// Notifier is told when a section of a user's dashboard was refreshed from upstream.
type Notifier interface {
	Notify(username, section string)
}

// Service implements the aggregation functions. It is safe for concurrent
// use; calls for different identities touch disjoint cache keys, and
// concurrent misses for the same identity both write, last write wins.
type Service struct {
	cache    *cache.Codec
	upstream Upstream
	ai       Generator
	notifier Notifier
	logger   *slog.Logger
}

// NewService wires the aggregation layer. notifier may be nil.
func NewService(store cache.Store, upstream Upstream, gen Generator, notifier Notifier, logger *slog.Logger) *Service {
	logger = logger.With("component", "dashboard")
	return &Service{
		cache:    cache.NewCodec(store, logger),
		upstream: upstream,
		ai:       gen,
		notifier: notifier,
		logger:   logger,
	}
}

// CacheAvailable reports whether results are being cached.
func (s *Service) CacheAvailable() bool {
	return s.cache.Store.Available()
}

func (s *Service) notify(username, section string) {
	if s.notifier != nil {
		s.notifier.Notify(username, section)
	}
}

// normalizeLogin lower-cases a login; GitHub logins are case-insensitive
// and the cache key must not fork on spelling.
func normalizeLogin(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
