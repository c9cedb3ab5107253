package cache

import (
	"context"
	"time"
)

// Store is the process-wide key-value cache with per-key expiration.
// Every operation is best-effort: backend failures are logged by the
// implementation and surface as a miss or a no-op, never as an error.
type Store interface {
	// Get returns the value and whether it was present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores the value for ttl, overwriting any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a key if present.
	Delete(ctx context.Context, key string)

	// Available reports whether the backend was reachable at startup.
	Available() bool

	// Close releases backend resources.
	Close() error
}

// Key classes and their time-to-live.
const (
	ClassProfile = "user"
	ClassRepos   = "repos"
	ClassPinned  = "pinned"
	ClassStreak  = "streak"
	ClassSummary = "summary"
	ClassPersona = "persona"

	ProfileTTL = 10 * time.Minute
	ReposTTL   = 10 * time.Minute
	PinnedTTL  = time.Hour
	StreakTTL  = time.Hour
	SummaryTTL = 24 * time.Hour
	PersonaTTL = 24 * time.Hour
)

// Cache keys in one place so the scheme cannot drift between callers.

func ProfileKey(username string) string    { return ClassProfile + ":" + username }
func ReposKey(username string) string      { return ClassRepos + ":" + username }
func PinnedKey(username string) string     { return ClassPinned + ":" + username }
func StreakKey(username string) string     { return ClassStreak + ":" + username }
func SummaryKey(owner, repo string) string { return ClassSummary + ":" + owner + "/" + repo }
func PersonaKey(username string) string    { return ClassPersona + ":" + username }
