package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
}

func (c *fakeClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false
	}
	c.messages = append(c.messages, message)
	return true
}

func (c *fakeClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

// stalledClient blocks in Send until release is closed.
type stalledClient struct {
	release chan struct{}
}

func (c *stalledClient) Send([]byte) bool {
	<-c.release
	return true
}

func (c *stalledClient) Close() {}

func (c *fakeClient) Close() {}

func TestRegisterBroadcastUnregister(t *testing.T) {
	h := NewHub(nil)
	a, b := &fakeClient{}, &fakeClient{fail: true}

	h.Register("Octocat", a)
	h.Register("octocat", b)
	require.Equal(t, 2, h.Subscribers("OCTOCAT"))

	require.Equal(t, 1, h.Broadcast("octocat", []byte("hi")))
	require.Equal(t, [][]byte{[]byte("hi")}, a.messages)

	h.Unregister("octocat", a)
	h.Unregister("octocat", b)
	require.Equal(t, 0, h.Subscribers("octocat"))
	require.Empty(t, h.usernameClients)
}

func TestNotify(t *testing.T) {
	h := NewHub(nil)
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return at }

	c := &fakeClient{}
	other := &fakeClient{}
	h.Register("octocat", c)
	h.Register("someone", other)

	h.Notify("Octocat", "streak")

	require.Eventually(t, func() bool { return len(c.received()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Empty(t, other.received())

	var ev Event
	require.NoError(t, json.Unmarshal(c.received()[0], &ev))
	require.Equal(t, Event{Section: "streak", Username: "octocat", At: at}, ev)
}

func TestNotifyWithoutSubscribers(t *testing.T) {
	h := NewHub(nil)
	h.Notify("nobody", "profile")
	require.Equal(t, 0, h.Subscribers("nobody"))
}

func TestNotifyDoesNotWaitForStalledClient(t *testing.T) {
	h := NewHub(nil)
	stalled := &stalledClient{release: make(chan struct{})}
	defer close(stalled.release)
	fast := &fakeClient{}
	h.Register("octocat", stalled)
	h.Register("octocat", fast)

	start := time.Now()
	h.Notify("octocat", "profile")
	require.Less(t, time.Since(start), 500*time.Millisecond)

	// the hub lock is not held while a send is in flight
	done := make(chan struct{})
	go func() {
		h.Register("octocat", &fakeClient{})
		h.Unregister("octocat", fast)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("register blocked behind a stalled client")
	}
}
