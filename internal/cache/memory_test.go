package cache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet_NoTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore()
	c.Set(ctx, "a", []byte("1"), 0)

	v, ok := c.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)
	require.Equal(t, 1, c.Len())
}

func TestMemoryStore_TTL_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore()

	// Freeze time via now indirection
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	c.Set(ctx, "k", []byte("v"), time.Second)
	v, ok := c.Get(ctx, "k")
	require.True(t, ok, "expected hit before expiry")
	require.Equal(t, []byte("v"), v)

	// advance time beyond TTL
	base = base.Add(2 * time.Second)
	_, ok = c.Get(ctx, "k")
	require.False(t, ok, "expected miss after expiry")

	require.Equal(t, int64(1), c.PurgeExpired(ctx))
	require.Equal(t, 0, c.Len())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore()
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	c.Delete(ctx, "a")

	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
	require.Equal(t, 1, c.Len())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore()
	in := []byte("abc")
	c.Set(ctx, "k", in, 0)
	in[0] = 'x'

	out, _ := c.Get(ctx, "k")
	require.Equal(t, []byte("abc"), out)
	out[0] = 'y'

	again, _ := c.Get(ctx, "k")
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	keys := 100
	rounds := 200

	c := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < keys; i++ {
		key := strconv.Itoa(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				c.Set(ctx, key, []byte(strconv.Itoa(r)), 0)
				_, _ = c.Get(ctx, key)
			}
		}()
	}
	wg.Wait()
	for i := 0; i < keys; i++ {
		_, ok := c.Get(ctx, strconv.Itoa(i))
		require.True(t, ok)
	}
}
