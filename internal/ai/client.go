// Package ai wraps the Gemini generateContent endpoint with bounded
// retries and a strict split between transient and permanent failures.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github-dashboard-api/internal/metrics"
	"github-dashboard-api/internal/models"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1 * time.Second
	defaultTimeout     = 25 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey      string
	APIURL      string
	Model       string
	Timeout     time.Duration // per attempt
	MaxAttempts int
	BaseDelay   time.Duration // doubled after every failed attempt
}

// Client generates text. It is safe for concurrent use; backoff waits
// block only the calling request.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New returns a Client. A nil http.Client uses a fresh default client.
func New(cfg Config, hc *http.Client, logger *slog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-preview-05-20"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		cfg:    cfg,
		http:   hc,
		logger: logger.With("component", "ai"),
		sleep:  sleepContext,
	}
}

// SetSleepForTest replaces the backoff wait.
func (c *Client) SetSleepForTest(sleep func(ctx context.Context, d time.Duration) error) {
	c.sleep = sleep
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// attemptError is a failure worth retrying.
type attemptError struct {
	kind models.GenerationErrorKind
	err  error
}

// Generate sends prompt and returns the generated text or a classified failure.
// 5xx, 429, timeouts, transport and decode errors are retried with
// exponential backoff; any other 4xx fails at once as BadRequest. A 2xx
// without usable text is returned as UnexpectedShape without retrying.
func (c *Client) Generate(ctx context.Context, prompt string) models.GenerationResult {
	if !c.Configured() {
		return models.GenerationFailed(models.GenNotConfigured, "GEMINI_API_KEY is not configured on the server")
	}

	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return models.GenerationFailed(models.GenBadRequest, err.Error())
	}

	delay := c.cfg.BaseDelay
	var last *attemptError
	// Waits come only between attempts: 1s, 2s for three attempts; the 4s step is never reached.
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		result, retry := c.attempt(ctx, payload)
		if retry == nil {
			metrics.AIAttempts.WithLabelValues(outcome(result)).Inc()
			return result
		}
		last = retry
		metrics.AIAttempts.WithLabelValues(string(retry.kind)).Inc()
		c.logger.Warn("generation attempt failed",
			"attempt", attempt, "max_attempts", c.cfg.MaxAttempts, "kind", retry.kind, "error", retry.err)

		if attempt == c.cfg.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return models.GenerationFailed(models.GenTimeout, "request cancelled while waiting to retry")
		}
		delay *= 2
	}

	if last != nil && last.kind == models.GenTimeout {
		return models.GenerationFailed(models.GenTimeout,
			fmt.Sprintf("AI service timed out after %d attempts", c.cfg.MaxAttempts))
	}
	return models.GenerationFailed(models.GenServiceUnavailable,
		fmt.Sprintf("AI service is unavailable after %d attempts", c.cfg.MaxAttempts))
}

// attempt performs one call. A non-nil attemptError means retry.
func (c *Client) attempt(ctx context.Context, payload []byte) (models.GenerationResult, *attemptError) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return models.GenerationFailed(models.GenBadRequest, err.Error()), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.GenerationResult{}, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.GenerationResult{}, transportError(err)
	}

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return models.GenerationResult{}, &attemptError{
			kind: models.GenServiceUnavailable,
			err:  fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)),
		}
	case resp.StatusCode >= 400:
		c.logger.Warn("generation request rejected", "status", resp.StatusCode, "body", snippet(body))
		return models.GenerationFailed(models.GenBadRequest,
			fmt.Sprintf("AI service rejected the request (HTTP %d); content might be invalid or too long", resp.StatusCode)), nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return models.GenerationResult{}, &attemptError{
			kind: models.GenServiceUnavailable,
			err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.GenerationResult{}, &attemptError{kind: models.GenServiceUnavailable, err: fmt.Errorf("decode response: %w", err)}
	}
	return extract(parsed), nil
}

// extract reads candidates[0].content.parts[0].text.
func extract(r generateResponse) models.GenerationResult {
	if len(r.Candidates) == 0 {
		return unexpectedShape("NO_CANDIDATES")
	}
	first := r.Candidates[0]
	if first.Content != nil && len(first.Content.Parts) > 0 && first.Content.Parts[0].Text != "" {
		return models.GeneratedText(first.Content.Parts[0].Text)
	}
	reason := first.FinishReason
	if reason == "" {
		reason = "UNKNOWN"
	}
	return unexpectedShape(reason)
}

func unexpectedShape(reason string) models.GenerationResult {
	res := models.GenerationFailed(models.GenUnexpectedShape, "AI model returned a non-standard response")
	res.Err.FinishReason = reason
	return res
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.APIURL, "/"), url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))
}

func transportError(err error) *attemptError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &attemptError{kind: models.GenTimeout, err: stripKey(err)}
	}
	return &attemptError{kind: models.GenServiceUnavailable, err: stripKey(err)}
}

// stripKey drops the request URL, which carries the API key, from transport errors.
func stripKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func outcome(r models.GenerationResult) string {
	if r.OK() {
		return "ok"
	}
	return string(r.Err.Kind)
}

func snippet(body []byte) string {
	if len(body) > 300 {
		return string(body[:300]) + "..."
	}
	return string(body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
