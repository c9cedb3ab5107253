package dashboard

import (
	"context"
	"errors"
	"strings"

	"github-dashboard-api/internal/ai"
	"github-dashboard-api/internal/cache"
	"github-dashboard-api/internal/github"
	"github-dashboard-api/internal/models"
)

// ReadmeSummary summarizes a repository README. Successful summaries are
// cached for a day; failures are never cached so the next request retries.
func (s *Service) ReadmeSummary(ctx context.Context, owner, repo string) models.GenerationResult {
	owner, repo = normalizeLogin(owner), strings.ToLower(strings.TrimSpace(repo))
	key := cache.SummaryKey(owner, repo)

	if text, ok := s.cache.GetString(ctx, key); ok {
		return models.GeneratedText(text)
	}
	if !s.ai.Configured() {
		return models.GenerationFailed(models.GenNotConfigured, "GEMINI_API_KEY is not configured on the server")
	}

	readme, err := s.upstream.Readme(ctx, owner, repo)
	if err != nil {
		return readmeFailure(err)
	}
	if strings.TrimSpace(readme) == "" {
		return models.GenerationFailed(models.GenUpstreamUnavailable, "failed to retrieve valid README content")
	}

	res := s.ai.Generate(ctx, ai.ReadmePrompt(readme))
	if !res.OK() {
		s.logger.Warn("readme summary failed", "repo", owner+"/"+repo, "error", res.Err)
		return res
	}
	s.cache.SetString(ctx, key, res.Text, cache.SummaryTTL)
	s.notify(owner, SectionSummary)
	return res
}

// Persona writes a short developer persona from a profile and its
// repositories, cached per login for a day.
func (s *Service) Persona(ctx context.Context, profile models.Profile, repos []models.RepositorySummary) models.GenerationResult {
	login := normalizeLogin(profile.Login)
	if login == "" {
		return models.GenerationFailed(models.GenBadRequest, "profile has no login")
	}
	key := cache.PersonaKey(login)

	if text, ok := s.cache.GetString(ctx, key); ok {
		return models.GeneratedText(text)
	}

	res := s.ai.Generate(ctx, ai.PersonaPrompt(profile, repos, Histogram(repos).Top(5)))
	if !res.OK() {
		s.logger.Warn("persona generation failed", "user", login, "error", res.Err)
		return res
	}
	s.cache.SetString(ctx, key, res.Text, cache.PersonaTTL)
	s.notify(login, SectionPersona)
	return res
}

// SummarizeContent summarizes caller-supplied README text. Nothing is cached.
func (s *Service) SummarizeContent(ctx context.Context, content string) models.GenerationResult {
	if strings.TrimSpace(content) == "" {
		return models.GenerationFailed(models.GenBadRequest, "content is empty")
	}
	return s.ai.Generate(ctx, ai.ReadmePrompt(content))
}

func readmeFailure(err error) models.GenerationResult {
	switch {
	case errors.Is(err, github.ErrReadmeNotFound):
		return models.GenerationFailed(models.GenReadmeNotFound, "this repository does not have a readable README file")
	case errors.Is(err, github.ErrTimeout):
		return models.GenerationFailed(models.GenTimeout, "timeout fetching README from GitHub")
	default:
		return models.GenerationFailed(models.GenUpstreamUnavailable, "could not fetch README from GitHub")
	}
}
