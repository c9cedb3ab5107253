package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github-dashboard-api/internal/dashboard"
	"github-dashboard-api/internal/models"
)

const latestRepoCount = 5

var (
	colorGreen   = lipgloss.Color("#2ECC71")
	colorBlue    = lipgloss.Color("#3498DB")
	colorCyan    = lipgloss.Color("#1ABC9C")
	colorMagenta = lipgloss.Color("#C678DD")
	colorYellow  = lipgloss.Color("#F4D03F")
	colorRed     = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#7F8C8D")
)

var styles = struct {
	Title   lipgloss.Style
	Login   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Lang    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Profile lipgloss.Style
	Table   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true),
	Login:   lipgloss.NewStyle().Foreground(colorCyan),
	Label:   lipgloss.NewStyle().Bold(true).Foreground(colorMagenta),
	Value:   lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	Lang:    lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorRed),
	Profile: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen).Padding(0, 1),
	Table:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorBlue).Padding(0, 1),
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func renderProfile(p models.Profile) string {
	name := p.Name
	if name == "" {
		name = "N/A"
	}
	body := styles.Title.Render(name) + " " + styles.Login.Render("(@"+p.Login+")") + "\n" +
		orNA(p.Bio) + "\n\n" +
		styles.Muted.Render(orNA(p.Company)+" • "+orNA(p.Location))
	return styles.Profile.Render(styles.Title.Render("GitHub Profile") + "\n" + body)
}

func renderStats(p models.Profile) string {
	rows := [][2]string{
		{"Followers", strconv.Itoa(p.Followers)},
		{"Following", strconv.Itoa(p.Following)},
		{"Public Repos", strconv.Itoa(p.PublicRepos)},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styles.Label.Width(14).Render(r[0])+styles.Value.Render(r[1]))
	}
	return styles.Table.Render(strings.Join(lines, "\n"))
}

func renderLanguages(top []models.LanguageCount) string {
	lines := []string{styles.Title.Render("Top Languages")}
	if len(top) == 0 {
		lines = append(lines, styles.Muted.Render("no language data"))
	}
	for _, l := range top {
		lines = append(lines, styles.Lang.Width(14).Render(l.Language)+fmt.Sprintf("%5d", l.Count))
	}
	return styles.Table.Render(strings.Join(lines, "\n"))
}

func renderRepos(repos []models.RepositorySummary) string {
	lines := []string{styles.Title.Render("Latest Repositories")}
	if len(repos) > latestRepoCount {
		repos = repos[:latestRepoCount]
	}
	if len(repos) == 0 {
		lines = append(lines, styles.Muted.Render("no public repositories"))
	}
	for _, r := range repos {
		lines = append(lines, r.Name)
	}
	return styles.Table.Render(strings.Join(lines, "\n"))
}

func renderOverview(ov dashboard.Overview) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderProfile(ov.Profile),
		lipgloss.JoinHorizontal(lipgloss.Top, renderStats(ov.Profile), renderLanguages(ov.TopLanguages)),
		renderRepos(ov.Repos),
	)
}

func renderStreak(username string, days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return styles.Title.Render("Longest streak for @"+username+": ") + styles.Value.Render(fmt.Sprintf("%d %s", days, unit))
}

func renderSummary(repo, summary string) string {
	return styles.Profile.Render(styles.Title.Render(repo) + "\n" + summary)
}

func renderElapsed(d time.Duration) string {
	return styles.Muted.Render(fmt.Sprintf("Execution time: %.2f seconds", d.Seconds()))
}
