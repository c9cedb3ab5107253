package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github-dashboard-api/internal/metrics"
	"github-dashboard-api/internal/models"
)

const (
	defaultRESTTimeout    = 10 * time.Second
	defaultGraphQLTimeout = 15 * time.Second

	reposPerPage  = 30
	eventsPerPage = 100

	maxBodyBytes = 10 << 20
)

// Config configures a Client. Empty URLs default to the public GitHub API.
type Config struct {
	Token          string
	APIURL         string
	GraphQLURL     string
	UserAgent      string
	RESTTimeout    time.Duration
	GraphQLTimeout time.Duration
}

// Client talks to the profile API over REST and GraphQL. It holds no cache;
// read-through caching lives one layer up.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New returns a Client. A nil http.Client uses a fresh default client;
// per-call timeouts come from Config, not from the http.Client.
func New(cfg Config, hc *http.Client, logger *slog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.github.com"
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = strings.TrimRight(cfg.APIURL, "/") + "/graphql"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "github-dashboard-api"
	}
	if cfg.RESTTimeout <= 0 {
		cfg.RESTTimeout = defaultRESTTimeout
	}
	if cfg.GraphQLTimeout <= 0 {
		cfg.GraphQLTimeout = defaultGraphQLTimeout
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{cfg: cfg, http: hc, logger: logger.With("component", "github")}
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool {
	return c.cfg.Token != ""
}

// User fetches GET /users/{name}. A 404 matches ErrNotFound.
func (c *Client) User(ctx context.Context, name string) (models.Profile, error) {
	var u restUser
	if err := c.getJSON(ctx, "user", c.apiURL("/users/"+url.PathEscape(name), nil), true, &u); err != nil {
		return models.Profile{}, err
	}
	return u.toProfile(), nil
}

// Repos fetches one page of the user's repositories, most recently pushed first.
func (c *Client) Repos(ctx context.Context, name string, page int) ([]models.RepositorySummary, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("sort", "pushed")
	q.Set("per_page", strconv.Itoa(reposPerPage))
	q.Set("page", strconv.Itoa(page))

	var raw []restRepo
	if err := c.getJSON(ctx, "repos", c.apiURL("/users/"+url.PathEscape(name)+"/repos", q), true, &raw); err != nil {
		return nil, err
	}
	out := make([]models.RepositorySummary, 0, len(raw))
	for _, r := range raw {
		out = append(out, fromREST(r))
	}
	return out, nil
}

// Events fetches one page of the user's public events, newest first.
func (c *Client) Events(ctx context.Context, name string, page int) ([]models.Event, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(eventsPerPage))
	q.Set("page", strconv.Itoa(page))

	var raw []json.RawMessage
	if err := c.getJSON(ctx, "events", c.apiURL("/users/"+url.PathEscape(name)+"/events", q), true, &raw); err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(raw))
	for i, item := range raw {
		var e restEvent
		if err := json.Unmarshal(item, &e); err != nil {
			c.logger.Warn("skipping malformed event", "user", name, "page", page, "index", i, "error", err)
			continue
		}
		events = append(events, e.toEvent())
	}
	return events, nil
}

// Readme resolves the repository README through its metadata endpoint and
// downloads the raw body from the returned URL. A 404 on the metadata hop
// matches ErrReadmeNotFound.
func (c *Client) Readme(ctx context.Context, owner, repo string) (string, error) {
	endpoint := c.apiURL("/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo)+"/readme", nil)
	var meta struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.getJSON(ctx, "readme", endpoint, true, &meta); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("readme %s/%s: %w", owner, repo, ErrReadmeNotFound)
		}
		return "", err
	}
	if meta.DownloadURL == "" {
		return "", fmt.Errorf("readme %s/%s: %w: response has no download_url", owner, repo, ErrUnavailable)
	}

	body, err := c.get(ctx, "readme_content", meta.DownloadURL, false, c.cfg.RESTTimeout)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(body), "\uFFFD"), nil
}

func (c *Client) apiURL(path string, q url.Values) string {
	u := strings.TrimRight(c.cfg.APIURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, auth bool, dst any) error {
	body, err := c.get(ctx, endpoint, rawURL, auth, c.cfg.RESTTimeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return classifyTransport("decode "+endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, rawURL string, auth bool, timeout time.Duration) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrUnavailable, err)
	}
	return c.do(ctx, endpoint, req, auth, timeout)
}

// do executes req with its own timeout and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, endpoint string, req *http.Request, auth bool, timeout time.Duration) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		metrics.UpstreamRequests.WithLabelValues(endpoint, Outcome(err)).Inc()
		if err != nil {
			c.logger.Warn("upstream request failed", "endpoint", endpoint, "url", req.URL.Redacted(), "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req = req.WithContext(ctx)

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if auth {
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(endpoint, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport("read "+endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %w", endpoint, &HTTPError{StatusCode: resp.StatusCode, Body: body})
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, endpoint, rawURL string, payload any, timeout time.Duration) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrUnavailable, err)
	}
	req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, endpoint, req, true, timeout)
}
