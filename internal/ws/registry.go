package ws

import (
	"context"
	"sync"
	"time"

	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/shared/observability"
)

// PresenceAnnouncer publishes online/offline transitions to an external
// store so other processes can observe who is connected.
type PresenceAnnouncer interface {
	Online(ctx context.Context, username string) error
	Offline(ctx context.Context, username string) error
}

// DeliveryResult reports what happened to an outbound event.
type DeliveryResult int

const (
	Delivered DeliveryResult = iota
	RecipientOffline
	QueueFull
)

const presenceTimeout = 2 * time.Second

// Registry tracks which usernames currently have a live connection. It is
// the only shared mutable state between connection goroutines; every
// access goes through the mutex.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Client

	presence PresenceAnnouncer // optional
	metrics  *observability.Metrics
	logger   *logger.Logger
}

// NewRegistry creates an empty registry. presence may be nil.
func NewRegistry(presence PresenceAnnouncer, metrics *observability.Metrics, log *logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Client),
		presence: presence,
		metrics:  metrics,
		logger:   log,
	}
}

// Register binds username to client, replacing any existing binding.
// Last writer wins: the displaced client (if any) is returned. Its
// connection stays open but it is unreachable for future sends until it
// disconnects on its own.
func (r *Registry) Register(username string, c *Client) *Client {
	r.mu.Lock()
	displaced := r.sessions[username]
	r.sessions[username] = c
	r.mu.Unlock()

	if displaced != nil {
		r.logger.Warn("Session displaced by newer connection",
			"username", username,
			"old_session", displaced.SessionID.String(),
			"new_session", c.SessionID.String(),
		)
	} else {
		r.metrics.SessionsActive.Add(context.Background(), 1)
	}

	r.announce(username, true)
	return displaced
}

// Unregister removes the binding only when it still maps to this exact
// client, so a stale disconnect cannot evict a newer session for the same
// username. The send channel is closed under the lock, which keeps
// Deliver from racing a close. Returns whether the binding was removed.
func (r *Registry) Unregister(username string, c *Client) bool {
	r.mu.Lock()
	current, ok := r.sessions[username]
	if !ok || current.SessionID != c.SessionID {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, username)
	close(c.Send)
	r.mu.Unlock()

	r.metrics.SessionsActive.Add(context.Background(), -1)
	r.announce(username, false)
	return true
}

// Touch refreshes the presence TTL for a client that is still the
// current binding. Called from the write pump's ping ticker.
func (r *Registry) Touch(username string, c *Client) {
	r.mu.Lock()
	current, ok := r.sessions[username]
	r.mu.Unlock()

	if !ok || current.SessionID != c.SessionID {
		return
	}
	r.announce(username, true)
}

// Lookup returns the current client for username, if any.
func (r *Registry) Lookup(username string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[username]
	return c, ok
}

// Deliver enqueues a frame on the recipient's send channel. The enqueue
// happens under the registry lock so a concurrent Unregister cannot close
// the channel out from under us. The channel is buffered and drained by
// the recipient's own write pump, so concurrent senders to the same
// receiver never interleave partial writes.
func (r *Registry) Deliver(username string, frame []byte) DeliveryResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions[username]
	if !ok {
		return RecipientOffline
	}

	select {
	case c.Send <- frame:
		return Delivered
	default:
		return QueueFull
	}
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ActiveUsernames lists who is currently connected, for the health
// endpoint.
func (r *Registry) ActiveUsernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	return names
}

// announce publishes the presence transition, best-effort. A failing
// presence store never affects the in-memory registry.
func (r *Registry) announce(username string, online bool) {
	if r.presence == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()

	var err error
	if online {
		err = r.presence.Online(ctx, username)
	} else {
		err = r.presence.Offline(ctx, username)
	}
	if err != nil {
		r.logger.Warn("Presence announcement failed",
			"username", username,
			"online", online,
			"error", err.Error(),
		)
	}
}
