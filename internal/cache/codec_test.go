package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

func TestCodec_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NewMemoryStore(), nil)

	in := payload{Name: "octocat", Tags: []string{"go", "cli"}, Count: 7}
	codec.SetJSON(ctx, "user:octocat", in, time.Minute)

	var out payload
	require.True(t, codec.GetJSON(ctx, "user:octocat", &out))
	require.Equal(t, in, out)
}

func TestCodec_ExpiredBehavesLikeMiss(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	codec := NewCodec(NewMemoryStore(), nil)
	codec.SetJSON(ctx, "user:octocat", payload{Name: "octocat"}, time.Minute)

	base = base.Add(time.Minute + time.Second)
	var out payload
	require.False(t, codec.GetJSON(ctx, "user:octocat", &out))
	require.Equal(t, payload{}, out)
}

func TestCodec_DeletedBehavesLikeMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	codec := NewCodec(store, nil)
	codec.SetInt(ctx, "streak:octocat", 4, time.Minute)
	store.Delete(ctx, "streak:octocat")

	_, ok := codec.GetInt(ctx, "streak:octocat")
	require.False(t, ok)
}

func TestCodec_MalformedJSONIsDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Set(ctx, "pinned:octocat", []byte("{not json"), time.Hour)
	codec := NewCodec(store, nil)

	var out []payload
	require.False(t, codec.GetJSON(ctx, "pinned:octocat", &out))

	_, stillThere := store.Get(ctx, "pinned:octocat")
	require.False(t, stillThere, "corrupt entry should be removed")
}

func TestCodec_Int(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	codec := NewCodec(store, nil)

	codec.SetInt(ctx, "streak:octocat", 0, time.Hour)
	n, ok := codec.GetInt(ctx, "streak:octocat")
	require.True(t, ok, "zero is a cached value, not a miss")
	require.Equal(t, 0, n)

	store.Set(ctx, "streak:bad", []byte("three"), time.Hour)
	_, ok = codec.GetInt(ctx, "streak:bad")
	require.False(t, ok)
	_, stillThere := store.Get(ctx, "streak:bad")
	require.False(t, stillThere)
}

func TestCodec_String(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	codec := NewCodec(store, nil)

	codec.SetString(ctx, "summary:o/r", "* bullet", time.Hour)
	s, ok := codec.GetString(ctx, "summary:o/r")
	require.True(t, ok)
	require.Equal(t, "* bullet", s)

	store.Set(ctx, "summary:empty", nil, time.Hour)
	_, ok = codec.GetString(ctx, "summary:empty")
	require.False(t, ok)
}

func TestCodec_NullStoreNeverCaches(t *testing.T) {
	ctx := context.Background()
	codec := NewCodec(NullStore{}, nil)

	codec.SetJSON(ctx, "user:octocat", payload{Name: "octocat"}, time.Hour)
	codec.SetInt(ctx, "streak:octocat", 3, time.Hour)

	var out payload
	require.False(t, codec.GetJSON(ctx, "user:octocat", &out))
	_, ok := codec.GetInt(ctx, "streak:octocat")
	require.False(t, ok)
	require.False(t, NullStore{}.Available())
}

func TestKeys(t *testing.T) {
	require.Equal(t, "user:octocat", ProfileKey("octocat"))
	require.Equal(t, "repos:octocat", ReposKey("octocat"))
	require.Equal(t, "pinned:octocat", PinnedKey("octocat"))
	require.Equal(t, "streak:octocat", StreakKey("octocat"))
	require.Equal(t, "summary:octocat/hello-world", SummaryKey("octocat", "hello-world"))
	require.Equal(t, "persona:octocat", PersonaKey("octocat"))
	require.Equal(t, "summary", keyClass(SummaryKey("a", "b")))
	require.Equal(t, "other", keyClass("nocolon"))
}
