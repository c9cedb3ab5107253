package models

import (
	"sort"
)

// Owner identifies the account a repository belongs to.
type Owner struct {
	Login string `json:"login"`
}

// RepositorySummary is the one repository shape served to the dashboard,
// whether it came from the REST list endpoint or the GraphQL pinned query.
type RepositorySummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	URL         string   `json:"html_url"`
	Owner       Owner    `json:"owner"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
}

// LanguageHistogram maps a language name to the number of repositories using it.
type LanguageHistogram map[string]int

// LanguageCount is one histogram bucket.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Top returns at most n buckets ordered by count, ties broken by name.
// n <= 0 returns every bucket.
func (h LanguageHistogram) Top(n int) []LanguageCount {
	out := make([]LanguageCount, 0, len(h))
	for lang, count := range h {
		out = append(out, LanguageCount{Language: lang, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Total is the number of repositories counted.
func (h LanguageHistogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}
