package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github-dashboard-api/internal/cache"
	"github-dashboard-api/internal/github"
	"github-dashboard-api/internal/models"
)

// Profile returns the user's profile. A missing user yields ErrNotFound;
// any other failure yields ErrUnavailable. Neither outcome is cached.
func (s *Service) Profile(ctx context.Context, name string) (models.Profile, error) {
	name = normalizeLogin(name)
	key := cache.ProfileKey(name)

	var p models.Profile
	if s.cache.GetJSON(ctx, key, &p) {
		return p, nil
	}

	p, err := s.upstream.User(ctx, name)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.cache.SetJSON(ctx, key, p, cache.ProfileTTL)
	s.notify(name, SectionProfile)
	return p, nil
}

// Repos returns one page of repositories. Only page 1 is cached; later
// pages always go upstream. Failures yield an empty slice.
func (s *Service) Repos(ctx context.Context, name string, page int) []models.RepositorySummary {
	name = normalizeLogin(name)
	if page < 1 {
		page = 1
	}
	key := cache.ReposKey(name)

	if page == 1 {
		var cached []models.RepositorySummary
		if s.cache.GetJSON(ctx, key, &cached) {
			return nonNil(cached)
		}
	}

	repos, err := s.upstream.Repos(ctx, name, page)
	if err != nil {
		s.logger.Warn("repository list unavailable", "user", name, "page", page, "error", err)
		return []models.RepositorySummary{}
	}
	repos = nonNil(repos)

	if page == 1 {
		s.cache.SetJSON(ctx, key, repos, cache.ReposTTL)
		s.notify(name, SectionRepos)
	}
	return repos
}

// Pinned returns the user's pinned repositories. Failures yield an empty
// slice and are not cached; a successful empty answer is.
func (s *Service) Pinned(ctx context.Context, name string) []models.RepositorySummary {
	name = normalizeLogin(name)
	key := cache.PinnedKey(name)

	var cached []models.RepositorySummary
	if s.cache.GetJSON(ctx, key, &cached) {
		return nonNil(cached)
	}

	pinned, err := s.upstream.Pinned(ctx, name)
	if err != nil {
		s.logger.Warn("pinned repositories unavailable", "user", name, "error", err)
		return []models.RepositorySummary{}
	}
	pinned = nonNil(pinned)

	s.cache.SetJSON(ctx, key, pinned, cache.PinnedTTL)
	s.notify(name, SectionPinned)
	return pinned
}

func nonNil(repos []models.RepositorySummary) []models.RepositorySummary {
	if repos == nil {
		return []models.RepositorySummary{}
	}
	for i := range repos {
		if repos[i].Topics == nil {
			repos[i].Topics = []string{}
		}
	}
	return repos
}
