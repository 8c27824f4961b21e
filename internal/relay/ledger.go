package relay

import (
	"sync"

	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
)

// PendingPushRequest is one batch of buffered messages awaiting
// delivery to the unreachable peer. Its completion signal fires exactly
// once, when a poll drains the request, so the owner of any resources
// tied to the outstanding notification can release them.
type PendingPushRequest struct {
	Messages       []*relaypb.RelayMessage
	RegistrationID string
	RelayPeer      string

	done     chan struct{}
	doneOnce sync.Once
}

// NewPendingPushRequest wraps a flushed batch for the ledger.
func NewPendingPushRequest(msgs []*relaypb.RelayMessage, registrationID, relayPeer string) *PendingPushRequest {
	return &PendingPushRequest{
		Messages:       msgs,
		RegistrationID: registrationID,
		RelayPeer:      relayPeer,
		done:           make(chan struct{}),
	}
}

// Done is closed once the request has been handed to the unreachable peer.
func (r *PendingPushRequest) Done() <-chan struct{} {
	return r.done
}

func (r *PendingPushRequest) complete() {
	r.doneOnce.Do(func() { close(r.done) })
}

// Ledger is the insertion-ordered collection of outstanding push
// requests. One mutex guards both append and the snapshot-then-clear
// drain, so a request is never visible to two drains and an append
// racing a drain lands either in the snapshot or in the cleared ledger.
type Ledger struct {
	mu   sync.Mutex
	reqs []*PendingPushRequest
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records an outstanding request.
func (l *Ledger) Append(req *PendingPushRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, req)
}

// DrainAll atomically snapshots and clears the ledger, returning the
// requests in insertion order.
func (l *Ledger) DrainAll() []*PendingPushRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	reqs := l.reqs
	l.reqs = nil
	return reqs
}

// Len reports the number of outstanding requests.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reqs)
}
