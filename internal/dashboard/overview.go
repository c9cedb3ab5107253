package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github-dashboard-api/internal/models"
)

// TopLanguagesLimit is how many histogram buckets the overview carries.
const TopLanguagesLimit = 5

// Overview is the first-page dashboard payload.
type Overview struct {
	Profile      models.Profile             `json:"profile"`
	Pinned       []models.RepositorySummary `json:"pinned_repos"`
	Repos        []models.RepositorySummary `json:"repos"`
	Languages    models.LanguageHistogram   `json:"-"`
	TopLanguages []models.LanguageCount     `json:"language_stats"`
}

// Overview assembles profile, pinned repositories and the first page of
// repositories, and a language histogram over pinned followed by repos.
// Only a missing or unavailable profile fails the call; the other
// sections degrade to empty.
func (s *Service) Overview(ctx context.Context, name string) (Overview, error) {
	profile, err := s.Profile(ctx, name)
	if err != nil {
		return Overview{}, err
	}

	var pinned, repos []models.RepositorySummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pinned = s.Pinned(gctx, name)
		return nil
	})
	g.Go(func() error {
		repos = s.Repos(gctx, name, 1)
		return nil
	})
	_ = g.Wait()

	combined := make([]models.RepositorySummary, 0, len(pinned)+len(repos))
	combined = append(combined, pinned...)
	combined = append(combined, repos...)
	hist := Histogram(combined)

	return Overview{
		Profile:      profile,
		Pinned:       pinned,
		Repos:        repos,
		Languages:    hist,
		TopLanguages: hist.Top(TopLanguagesLimit),
	}, nil
}
