// Package registry tracks the relay sessions hosted on this node and
// the neighbor view assembled from device check-ins.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/wakerelay/wakerelay/internal/relay"
)

// RelaySession tracks one unreachable peer served by this relay.
type RelaySession struct {
	PeerID         string
	RegistrationID string
	SessionID      string
	CreatedAt      time.Time
	Endpoint       *relay.Endpoint
}

// RelayRegistry keeps track of relay sessions hosted on the node.
type RelayRegistry interface {
	Register(sess RelaySession) error
	Get(peerID string) (RelaySession, bool)
	Delete(peerID string) bool
	List() []RelaySession
}

// InMemoryRegistry is a registry backed by a map keyed on peer ID.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]RelaySession
	limit    int
	nowFn    func() time.Time
}

// NewInMemory creates a registry with an optional limit; zero means unbounded.
func NewInMemory(limit int) *InMemoryRegistry {
	return &InMemoryRegistry{
		sessions: make(map[string]RelaySession),
		limit:    limit,
		nowFn:    time.Now,
	}
}

// Register stores a relay session if capacity allows.
func (r *InMemoryRegistry) Register(sess RelaySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess.PeerID == "" {
		return errors.New("peer id is required")
	}
	if _, exists := r.sessions[sess.PeerID]; exists {
		return errors.New("peer already has a relay session")
	}
	if r.limit > 0 && len(r.sessions) >= r.limit {
		return errors.New("relay registry at capacity")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = r.nowFn()
	}
	r.sessions[sess.PeerID] = sess
	return nil
}

// Get fetches a session by the unreachable peer's ID.
func (r *InMemoryRegistry) Get(peerID string) (RelaySession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[peerID]
	return sess, ok
}

// Delete removes a session by peer ID.
func (r *InMemoryRegistry) Delete(peerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[peerID]; !ok {
		return false
	}
	delete(r.sessions, peerID)
	return true
}

// List enumerates all tracked sessions.
func (r *InMemoryRegistry) List() []RelaySession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RelaySession, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}
