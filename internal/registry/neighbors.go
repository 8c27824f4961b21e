package registry

import (
	"errors"
	"sync"
	"time"
)

// NeighborPresence is one overlay peer reported through a map update.
type NeighborPresence struct {
	PeerID   string
	Address  string
	LastSeen time.Time
}

// NeighborView aggregates the neighbor tables reported by polling
// devices into the relay's own view of the overlay.
type NeighborView interface {
	Merge(neighbors []NeighborPresence, now time.Time) error
	Snapshot() []NeighborPresence
	EvictStale(maxAge time.Duration, now time.Time) int
}

// InMemoryNeighborView stores neighbor presences in a map.
type InMemoryNeighborView struct {
	mu        sync.RWMutex
	neighbors map[string]NeighborPresence
}

// NewNeighborView builds an in-memory neighbor view.
func NewNeighborView() *InMemoryNeighborView {
	return &InMemoryNeighborView{
		neighbors: make(map[string]NeighborPresence),
	}
}

// Merge upserts the reported neighbors, keeping the freshest sighting
// per peer.
func (v *InMemoryNeighborView) Merge(neighbors []NeighborPresence, now time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, n := range neighbors {
		if n.PeerID == "" {
			return errors.New("neighbor peer id is required")
		}
		if n.LastSeen.IsZero() {
			n.LastSeen = now
		}
		if cur, ok := v.neighbors[n.PeerID]; ok && cur.LastSeen.After(n.LastSeen) {
			continue
		}
		v.neighbors[n.PeerID] = n
	}
	return nil
}

// Snapshot enumerates the current neighbor presences.
func (v *InMemoryNeighborView) Snapshot() []NeighborPresence {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]NeighborPresence, 0, len(v.neighbors))
	for _, n := range v.neighbors {
		out = append(out, n)
	}
	return out
}

// EvictStale drops neighbors not seen within maxAge and reports how
// many were removed.
func (v *InMemoryNeighborView) EvictStale(maxAge time.Duration, now time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	evicted := 0
	for id, n := range v.neighbors {
		if now.Sub(n.LastSeen) > maxAge {
			delete(v.neighbors, id)
			evicted++
		}
	}
	return evicted
}
