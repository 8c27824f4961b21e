package relay

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Liveness tracks the last confirmed contact with the unreachable peer.
// The timestamp is a single atomic scalar: every writer performs an
// idempotent "set to now", so no broader lock is needed.
type Liveness struct {
	clk       clock.Clock
	tolerance time.Duration
	last      atomic.Int64
}

// NewLiveness builds a tracker for the given check-in interval. The
// tolerance window stretches the interval by 1.5 to absorb slow
// messages; construction counts as the first contact.
func NewLiveness(checkIn time.Duration, clk clock.Clock) *Liveness {
	if clk == nil {
		clk = clock.New()
	}
	l := &Liveness{
		clk:       clk,
		tolerance: checkIn + checkIn/2,
	}
	l.last.Store(clk.Now().UnixNano())
	return l
}

// Refresh records a confirmed contact.
func (l *Liveness) Refresh() {
	l.last.Store(l.clk.Now().UnixNano())
}

// Alive reports whether the peer checked in within the tolerance window.
func (l *Liveness) Alive() bool {
	return l.clk.Now().UnixNano() <= l.last.Load()+int64(l.tolerance)
}

// LastUpdate returns the time of the last confirmed contact.
func (l *Liveness) LastUpdate() time.Time {
	return time.Unix(0, l.last.Load())
}
