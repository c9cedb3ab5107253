package github

import (
	"bytes"
	"encoding/json"
	"time"

	"github-dashboard-api/internal/models"
)

type restUser struct {
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	Bio         *string   `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	Location    *string   `json:"location"`
	Company     *string   `json:"company"`
	Blog        *string   `json:"blog"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u restUser) toProfile() models.Profile {
	return models.Profile{
		Login:       u.Login,
		Name:        deref(u.Name),
		Bio:         deref(u.Bio),
		AvatarURL:   u.AvatarURL,
		HTMLURL:     u.HTMLURL,
		Location:    deref(u.Location),
		Company:     deref(u.Company),
		Blog:        deref(u.Blog),
		Followers:   u.Followers,
		Following:   u.Following,
		PublicRepos: u.PublicRepos,
		CreatedAt:   u.CreatedAt,
	}
}

// restRepo is an element of GET /users/{name}/repos.
type restRepo struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	HTMLURL         string   `json:"html_url"`
	Owner           *login   `json:"owner"`
	Language        *string  `json:"language"`
	Topics          []string `json:"topics"`
}

type login struct {
	Login string `json:"login"`
}

// pinnedNode is a Repository node of the pinnedItems GraphQL connection.
// The nested objects stay raw so that a wrong-shaped owner, language or
// topic list degrades to its empty value instead of dropping the node.
type pinnedNode struct {
	Name             string          `json:"name"`
	Description      *string         `json:"description"`
	StargazerCount   int             `json:"stargazerCount"`
	ForkCount        int             `json:"forkCount"`
	URL              string          `json:"url"`
	Owner            json.RawMessage `json:"owner"`
	PrimaryLanguage  json.RawMessage `json:"primaryLanguage"`
	RepositoryTopics json.RawMessage `json:"repositoryTopics"`
}

// fromREST maps a REST repository to the shared summary shape.
func fromREST(r restRepo) models.RepositorySummary {
	out := models.RepositorySummary{
		Name:        r.Name,
		Description: deref(r.Description),
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		URL:         r.HTMLURL,
		Language:    nonEmpty(r.Language),
		Topics:      []string{},
	}
	if r.Owner != nil {
		out.Owner.Login = r.Owner.Login
	}
	for _, t := range r.Topics {
		if t != "" {
			out.Topics = append(out.Topics, t)
		}
	}
	return out
}

// fromGraphQL maps a pinned GraphQL node to the shared summary shape.
// Absent or malformed owner, language or topics map to their empty values.
func fromGraphQL(n pinnedNode) models.RepositorySummary {
	return models.RepositorySummary{
		Name:        n.Name,
		Description: deref(n.Description),
		Stars:       n.StargazerCount,
		Forks:       n.ForkCount,
		URL:         n.URL,
		Owner:       models.Owner{Login: rawLogin(n.Owner)},
		Language:    rawLanguage(n.PrimaryLanguage),
		Topics:      rawTopics(n.RepositoryTopics),
	}
}

func rawLogin(raw json.RawMessage) string {
	var l login
	if isNull(raw) || json.Unmarshal(raw, &l) != nil {
		return ""
	}
	return l.Login
}

func rawLanguage(raw json.RawMessage) *string {
	var lang struct {
		Name string `json:"name"`
	}
	if isNull(raw) || json.Unmarshal(raw, &lang) != nil {
		return nil
	}
	return nonEmpty(&lang.Name)
}

// rawTopics reads repositoryTopics.nodes[].topic.name, skipping any level
// that is missing or not the expected shape.
func rawTopics(raw json.RawMessage) []string {
	topics := []string{}
	var conn struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if isNull(raw) || json.Unmarshal(raw, &conn) != nil || isNull(conn.Nodes) {
		return topics
	}
	var nodes []json.RawMessage
	if json.Unmarshal(conn.Nodes, &nodes) != nil {
		return topics
	}
	for _, node := range nodes {
		var tn struct {
			Topic *struct {
				Name string `json:"name"`
			} `json:"topic"`
		}
		if isNull(node) || json.Unmarshal(node, &tn) != nil || tn.Topic == nil || tn.Topic.Name == "" {
			continue
		}
		topics = append(topics, tn.Topic.Name)
	}
	return topics
}

// restEvent is an element of GET /users/{name}/events. Fields stay raw so a
// wrong-typed value affects only its own event.
type restEvent struct {
	ID        json.RawMessage `json:"id"`
	Type      json.RawMessage `json:"type"`
	CreatedAt json.RawMessage `json:"created_at"`
}

func (e restEvent) toEvent() models.Event {
	return models.Event{
		ID:        rawText(e.ID),
		Type:      rawText(e.Type),
		CreatedAt: rawText(e.CreatedAt),
	}
}

// rawText returns a JSON string's value, "" for null or absent, and the
// literal text of any other value so that callers can report it.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
