package ai

import (
	"fmt"
	"strings"

	"github-dashboard-api/internal/models"
)

// MaxPromptSource is the character budget for source text embedded in a prompt.
const MaxPromptSource = 15000

const truncationMarker = "..."

// Truncate cuts s to max characters and appends a marker when it did.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	// byte length bounds rune count, skip the conversion for short input
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}

// ReadmePrompt asks for a recruiter-facing summary of a README.
func ReadmePrompt(readme string) string {
	return "Summarize this README file in 3-4 concise bullet points for a technical recruiter. " +
		"Focus on the project's purpose, its main features, and the technology stack used. " +
		"README content:\n\n" + Truncate(readme, MaxPromptSource)
}

// PersonaPrompt asks for a short developer persona built from a profile and its repositories.
func PersonaPrompt(p models.Profile, repos []models.RepositorySummary, top []models.LanguageCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Username: %s\n", p.Login)
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if p.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", p.Bio)
	}
	if p.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", p.Company)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", p.Location)
	}
	fmt.Fprintf(&b, "Followers: %d, Following: %d, Public repositories: %d\n", p.Followers, p.Following, p.PublicRepos)

	if len(top) > 0 {
		langs := make([]string, 0, len(top))
		for _, l := range top {
			langs = append(langs, fmt.Sprintf("%s (%d)", l.Language, l.Count))
		}
		fmt.Fprintf(&b, "Top languages: %s\n", strings.Join(langs, ", "))
	}

	if len(repos) > 0 {
		b.WriteString("Repositories:\n")
		for _, r := range repos {
			line := "- " + r.Name
			if r.Language != nil {
				line += " [" + *r.Language + "]"
			}
			if r.Description != "" {
				line += ": " + r.Description
			}
			if len(r.Topics) > 0 {
				line += " (topics: " + strings.Join(r.Topics, ", ") + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	return "Write a short developer persona (3-4 sentences) for the GitHub user described below, " +
		"aimed at a technical recruiter. Describe their apparent focus areas, strongest technologies, " +
		"and the kind of projects they enjoy. Do not invent employers or credentials.\n\n" +
		Truncate(b.String(), MaxPromptSource)
}
