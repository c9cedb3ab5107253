package dashboard

import (
	"context"
	"sync"

	"github-dashboard-api/internal/models"
)

type fakeUpstream struct {
	mu sync.Mutex

	profile    models.Profile
	profileErr error
	repos      map[int][]models.RepositorySummary
	reposErr   error
	pinned     []models.RepositorySummary
	pinnedErr  error
	events     map[int][]models.Event
	eventsErr  map[int]error
	readme     string
	readmeErr  error

	calls map[string]int
}

func (f *fakeUpstream) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeUpstream) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) User(_ context.Context, _ string) (models.Profile, error) {
	f.record("user")
	return f.profile, f.profileErr
}

func (f *fakeUpstream) Repos(_ context.Context, _ string, page int) ([]models.RepositorySummary, error) {
	f.record("repos")
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	return f.repos[page], nil
}

func (f *fakeUpstream) Pinned(_ context.Context, _ string) ([]models.RepositorySummary, error) {
	f.record("pinned")
	return f.pinned, f.pinnedErr
}

func (f *fakeUpstream) Events(_ context.Context, _ string, page int) ([]models.Event, error) {
	f.record("events")
	if err := f.eventsErr[page]; err != nil {
		return nil, err
	}
	return f.events[page], nil
}

func (f *fakeUpstream) Readme(_ context.Context, _, _ string) (string, error) {
	f.record("readme")
	return f.readme, f.readmeErr
}

type fakeGenerator struct {
	mu         sync.Mutex
	result     models.GenerationResult
	configured bool
	prompts    []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) models.GenerationResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.result
}

func (g *fakeGenerator) Configured() bool { return g.configured }

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(username, section string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, username+"/"+section)
}

func (n *recordingNotifier) seen() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func lang(s string) *string { return &s }

func repo(name string, language *string) models.RepositorySummary {
	return models.RepositorySummary{Name: name, Language: language, Topics: []string{}}
}
