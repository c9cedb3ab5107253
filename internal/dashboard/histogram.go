package dashboard

import "github-dashboard-api/internal/models"

// Histogram counts repositories per language. Repositories without a
// language are left out entirely rather than counted as unknown.
func Histogram(repos []models.RepositorySummary) models.LanguageHistogram {
	h := models.LanguageHistogram{}
	for _, r := range repos {
		if r.Language == nil {
			continue
		}
		h[*r.Language]++
	}
	return h
}
