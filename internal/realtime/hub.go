package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Client represents a single websocket client connection.
// The network conn itself is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event tells subscribers that a section of a user's dashboard was refreshed.
type Event struct {
	Section  string    `json:"section"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// Hub maintains subscriber connections per username and fans events out to them.
type Hub struct {
	mu              sync.RWMutex
	usernameClients map[string]map[Client]struct{}
	logger          *slog.Logger
	now             func() time.Time
}

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		usernameClients: make(map[string]map[Client]struct{}),
		logger:          logger.With("component", "realtime"),
		now:             time.Now,
	}
}

func key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register adds a client under a username.
func (h *Hub) Register(username string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := key(username)
	if _, ok := h.usernameClients[k]; !ok {
		h.usernameClients[k] = make(map[Client]struct{})
	}
	h.usernameClients[k][client] = struct{}{}
}

// Unregister removes a client; if the username has no more clients, cleans up the map.
func (h *Hub) Unregister(username string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := key(username)
	if clients, ok := h.usernameClients[k]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.usernameClients, k)
		}
	}
}

// Subscribers returns how many clients watch username.
func (h *Hub) Subscribers(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.usernameClients[key(username)])
}

// clients snapshots the subscribers of username so sends happen outside the lock.
func (h *Hub) clients(username string) []Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.usernameClients[key(username)]
	out := make([]Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Broadcast sends a message to all clients of a username and returns how
// many accepted it. Failed clients are left for their handler to clean up.
// A slow client delays only this call, never Register or Unregister.
func (h *Hub) Broadcast(username string, message []byte) int {
	sent := 0
	for _, c := range h.clients(username) {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Notify broadcasts a refresh Event for section. It returns once the event
// is encoded; delivery runs on its own goroutine so subscribers never hold
// up the caller.
func (h *Hub) Notify(username, section string) {
	if h.Subscribers(username) == 0 {
		return
	}
	msg, err := json.Marshal(Event{Section: section, Username: key(username), At: h.now().UTC()})
	if err != nil {
		h.logger.Error("encoding refresh event", "error", err)
		return
	}
	go func() {
		sent := h.Broadcast(username, msg)
		h.logger.Debug("refresh event sent", "user", key(username), "section", section, "clients", sent)
	}()
}
