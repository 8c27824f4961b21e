package registry

import (
	"testing"
	"time"
)

func TestRegisterEnforcesLimitAndUniqueness(t *testing.T) {
	reg := NewInMemory(2)

	if err := reg.Register(RelaySession{PeerID: "peer-a", SessionID: "s1"}); err != nil {
		t.Fatalf("register peer-a: %v", err)
	}
	if err := reg.Register(RelaySession{PeerID: "peer-a", SessionID: "s2"}); err == nil {
		t.Fatal("expected duplicate peer registration to fail")
	}
	if err := reg.Register(RelaySession{PeerID: "peer-b", SessionID: "s3"}); err != nil {
		t.Fatalf("register peer-b: %v", err)
	}
	if err := reg.Register(RelaySession{PeerID: "peer-c", SessionID: "s4"}); err == nil {
		t.Fatal("expected registration over capacity to fail")
	}

	sess, ok := reg.Get("peer-a")
	if !ok || sess.SessionID != "s1" {
		t.Fatalf("expected peer-a with session s1, got %+v ok=%v", sess, ok)
	}
	if sess.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}

	if !reg.Delete("peer-a") {
		t.Fatal("expected delete of peer-a to succeed")
	}
	if reg.Delete("peer-a") {
		t.Fatal("expected second delete of peer-a to report missing")
	}
	if got := len(reg.List()); got != 1 {
		t.Fatalf("expected 1 remaining session, got %d", got)
	}
}

func TestNeighborViewMergeAndEviction(t *testing.T) {
	view := NewNeighborView()
	now := time.Now()

	err := view.Merge([]NeighborPresence{
		{PeerID: "peer-a", Address: "10.0.0.1:7700"},
		{PeerID: "peer-b", Address: "10.0.0.2:7700", LastSeen: now.Add(-2 * time.Minute)},
	}, now)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	// A stale re-report must not roll back the freshest sighting.
	if err := view.Merge([]NeighborPresence{
		{PeerID: "peer-a", Address: "10.0.0.9:7700", LastSeen: now.Add(-time.Hour)},
	}, now); err != nil {
		t.Fatalf("merge stale: %v", err)
	}

	snap := make(map[string]NeighborPresence)
	for _, n := range view.Snapshot() {
		snap[n.PeerID] = n
	}
	if snap["peer-a"].Address != "10.0.0.1:7700" {
		t.Fatalf("expected peer-a to keep its fresh address, got %s", snap["peer-a"].Address)
	}

	if evicted := view.EvictStale(time.Minute, now); evicted != 1 {
		t.Fatalf("expected 1 stale neighbor evicted, got %d", evicted)
	}
	if got := len(view.Snapshot()); got != 1 {
		t.Fatalf("expected 1 neighbor after eviction, got %d", got)
	}

	if err := view.Merge([]NeighborPresence{{Address: "10.0.0.3:7700"}}, now); err == nil {
		t.Fatal("expected merge without peer id to fail")
	}
}
