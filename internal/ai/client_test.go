package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github-dashboard-api/internal/logging"
	"github-dashboard-api/internal/models"
	"github-dashboard-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

const generatePath = "/models/test-model:generateContent"

func okBody(text string) map[string]any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"parts": []any{map[string]any{"text": text}}},
			"finishReason": "STOP",
		}},
	}
}

// newTestClient returns a client whose backoff waits are recorded instead of slept.
func newTestClient(t *testing.T, up *testutil.FakeUpstream) (*Client, *[]time.Duration) {
	t.Helper()
	c := New(Config{APIKey: "k", APIURL: up.URL, Model: "test-model"}, up.Client(), logging.Discard())
	var slept []time.Duration
	c.SetSleepForTest(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})
	return c, &slept
}

func TestGenerate_RetriesServerErrorsThenSucceeds(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	var calls int32
	up.Handle(http.MethodPost, generatePath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "k", r.URL.Query().Get("key"))
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		if atomic.AddInt32(&calls, 1) < 3 {
			testutil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, okBody("* a summary"))
	})
	c, slept := newTestClient(t, up)

	res := c.Generate(context.Background(), "hello")
	require.True(t, res.OK())
	require.Equal(t, "* a summary", res.Text)
	require.Equal(t, 3, up.Calls(http.MethodPost, generatePath))
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestGenerate_BadRequestIsNotRetried(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.JSON(http.MethodPost, generatePath, http.StatusBadRequest, map[string]string{"error": "too long"})
	c, slept := newTestClient(t, up)

	res := c.Generate(context.Background(), "hello")
	require.False(t, res.OK())
	require.Equal(t, models.GenBadRequest, res.Err.Kind)
	require.Equal(t, 1, up.Calls(http.MethodPost, generatePath))
	require.Empty(t, *slept)
}

func TestGenerate_ExhaustedRetries(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.JSON(http.MethodPost, generatePath, http.StatusServiceUnavailable, map[string]string{"error": "overloaded"})
	c, slept := newTestClient(t, up)

	res := c.Generate(context.Background(), "hello")
	require.Equal(t, models.GenServiceUnavailable, res.Err.Kind)
	require.Equal(t, 3, up.Calls(http.MethodPost, generatePath))
	require.Len(t, *slept, 2)
}

func TestGenerate_RateLimitIsRetried(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	var calls int32
	up.Handle(http.MethodPost, generatePath, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			testutil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"error": "slow down"})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, okBody("ok"))
	})
	c, _ := newTestClient(t, up)

	res := c.Generate(context.Background(), "hello")
	require.True(t, res.OK())
	require.Equal(t, 2, up.Calls(http.MethodPost, generatePath))
}

func TestGenerate_MalformedBodyIsRetried(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	var calls int32
	up.Handle(http.MethodPost, generatePath, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_, _ = w.Write([]byte("{truncated"))
			return
		}
		testutil.WriteJSON(w, http.StatusOK, okBody("ok"))
	})
	c, _ := newTestClient(t, up)

	res := c.Generate(context.Background(), "hello")
	require.True(t, res.OK())
	require.Equal(t, 2, up.Calls(http.MethodPost, generatePath))
}

func TestGenerate_UnexpectedShape(t *testing.T) {
	cases := []struct {
		name   string
		body   map[string]any
		reason string
	}{
		{"no candidates", map[string]any{}, "NO_CANDIDATES"},
		{"empty candidates", map[string]any{"candidates": []any{}}, "NO_CANDIDATES"},
		{"safety block", map[string]any{"candidates": []any{map[string]any{"finishReason": "SAFETY"}}}, "SAFETY"},
		{"empty parts", map[string]any{"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{}},
		}}}, "UNKNOWN"},
		{"empty text", map[string]any{"candidates": []any{map[string]any{
			"content":      map[string]any{"parts": []any{map[string]any{"text": ""}}},
			"finishReason": "MAX_TOKENS",
		}}}, "MAX_TOKENS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up := testutil.NewFakeUpstream(t)
			up.JSON(http.MethodPost, generatePath, http.StatusOK, tc.body)
			c, _ := newTestClient(t, up)

			res := c.Generate(context.Background(), "hello")
			require.False(t, res.OK())
			require.Equal(t, models.GenUnexpectedShape, res.Err.Kind)
			require.Equal(t, tc.reason, res.Err.FinishReason)
			require.Equal(t, 1, up.Calls(http.MethodPost, generatePath), "a usable-but-empty answer is not retried")
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.Handle(http.MethodPost, generatePath, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c := New(Config{APIKey: "secret-key", APIURL: up.URL, Model: "test-model", Timeout: 30 * time.Millisecond},
		up.Client(), logging.Discard())
	c.SetSleepForTest(func(context.Context, time.Duration) error { return nil })

	res := c.Generate(context.Background(), "hello")
	require.Equal(t, models.GenTimeout, res.Err.Kind)
	require.NotContains(t, res.Err.Detail, "secret-key")
	require.Equal(t, 3, up.Calls(http.MethodPost, generatePath))
}

func TestGenerate_CancelledWhileWaiting(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.JSON(http.MethodPost, generatePath, http.StatusBadGateway, map[string]string{})
	c := New(Config{APIKey: "k", APIURL: up.URL, Model: "test-model"}, up.Client(), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	c.SetSleepForTest(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	res := c.Generate(ctx, "hello")
	require.Equal(t, models.GenTimeout, res.Err.Kind)
	require.Equal(t, 1, up.Calls(http.MethodPost, generatePath))
}

func TestGenerate_NotConfigured(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	c := New(Config{APIURL: up.URL}, up.Client(), logging.Discard())

	res := c.Generate(context.Background(), "hello")
	require.Equal(t, models.GenNotConfigured, res.Err.Kind)
	require.Zero(t, up.TotalCalls())
	require.False(t, c.Configured())
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abc...", Truncate("abcdef", 3))
	require.Equal(t, "héé...", Truncate("hééllo", 3), "counts characters, not bytes")
	require.Equal(t, "héé", Truncate("héé", 3))

	long := strings.Repeat("x", MaxPromptSource+50)
	p := ReadmePrompt(long)
	require.True(t, strings.HasSuffix(p, strings.Repeat("x", 10)+"..."))
	require.Equal(t, MaxPromptSource, strings.Count(p, "x"))

	require.False(t, strings.HasSuffix(ReadmePrompt("# tiny"), "..."))
}

func TestPersonaPrompt(t *testing.T) {
	lang := "Go"
	p := PersonaPrompt(
		models.Profile{Login: "octocat", Name: "Mona", Bio: "Loves cats", Followers: 5},
		[]models.RepositorySummary{{Name: "hello-world", Description: "demo", Language: &lang, Topics: []string{"cli"}}},
		[]models.LanguageCount{{Language: "Go", Count: 1}},
	)
	require.Contains(t, p, "Username: octocat")
	require.Contains(t, p, "Bio: Loves cats")
	require.Contains(t, p, "Top languages: Go (1)")
	require.Contains(t, p, "- hello-world [Go]: demo (topics: cli)")
}
