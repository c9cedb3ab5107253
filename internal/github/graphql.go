package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github-dashboard-api/internal/models"
)

const pinnedQuery = `query($username: String!) {
  repositoryOwner(login: $username) {
    ... on User {
      pinnedItems(first: 6, types: REPOSITORY) { nodes { ...pinnedRepo } }
    }
    ... on Organization {
      pinnedItems(first: 6, types: REPOSITORY) { nodes { ...pinnedRepo } }
    }
  }
}

fragment pinnedRepo on Repository {
  name
  description
  stargazerCount
  forkCount
  url
  owner { login }
  primaryLanguage { name }
  repositoryTopics(first: 5) { nodes { topic { name } } }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		RepositoryOwner json.RawMessage `json:"repositoryOwner"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// Pinned fetches up to six pinned repositories for a user or organization.
// A response carrying GraphQL errors fails as ErrUnavailable even on HTTP
// 200. Missing or wrong-shaped node lists yield an empty slice.
func (c *Client) Pinned(ctx context.Context, name string) ([]models.RepositorySummary, error) {
	if !c.HasToken() {
		return nil, fmt.Errorf("pinned: %w: the GraphQL API requires a token", ErrUnavailable)
	}

	body, err := c.post(ctx, "pinned", c.cfg.GraphQLURL, graphQLRequest{
		Query:     pinnedQuery,
		Variables: map[string]any{"username": name},
	}, c.cfg.GraphQLTimeout)
	if err != nil {
		return nil, err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, classifyTransport("decode pinned", err)
	}
	if hasErrors(resp.Errors) {
		return nil, fmt.Errorf("pinned %s: %w: graphql errors: %s", name, ErrUnavailable, string(resp.Errors))
	}
	if resp.Data == nil {
		return []models.RepositorySummary{}, nil
	}
	return c.pinnedNodes(name, resp.Data.RepositoryOwner), nil
}

// pinnedNodes digs repositoryOwner.pinnedItems.nodes out of the raw owner
// object without trusting any level of the shape.
func (c *Client) pinnedNodes(name string, owner json.RawMessage) []models.RepositorySummary {
	out := []models.RepositorySummary{}
	if isNull(owner) {
		c.logger.Debug("no repository owner in pinned response", "user", name)
		return out
	}

	var ownerObj struct {
		PinnedItems *struct {
			Nodes json.RawMessage `json:"nodes"`
		} `json:"pinnedItems"`
	}
	if err := json.Unmarshal(owner, &ownerObj); err != nil || ownerObj.PinnedItems == nil {
		c.logger.Debug("pinnedItems missing or malformed", "user", name, "error", err)
		return out
	}

	var nodes []json.RawMessage
	if isNull(ownerObj.PinnedItems.Nodes) {
		return out
	}
	if err := json.Unmarshal(ownerObj.PinnedItems.Nodes, &nodes); err != nil {
		c.logger.Debug("pinnedItems.nodes is not a list", "user", name, "error", err)
		return out
	}

	for _, raw := range nodes {
		if isNull(raw) {
			continue
		}
		var n pinnedNode
		if err := json.Unmarshal(raw, &n); err != nil || n.Name == "" {
			c.logger.Debug("skipping invalid pinned node", "user", name, "error", err)
			continue
		}
		out = append(out, fromGraphQL(n))
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func hasErrors(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return false
	}
	return !bytes.Equal(trimmed, []byte("[]")) && !bytes.Equal(trimmed, []byte("{}"))
}
