// Package buffer accumulates relay messages for an unreachable peer
// and flushes them to its handler by count, size, or age.
package buffer

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/wakerelay/wakerelay/internal/wire"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/zap"
)

const (
	defaultMaxMessages = 10
	defaultMaxBytes    = 256 * 1024
	defaultMaxAge      = 30 * time.Second
)

// Policy sets the flush thresholds. Zero values take the defaults; a
// negative MaxAge disables age-based flushing.
type Policy struct {
	MaxMessages int
	MaxBytes    int
	MaxAge      time.Duration
}

// Handler receives flushed message batches. BufferFull fires when a
// policy threshold tripped, BufferFlushed when the flush was forced.
// Callbacks are never invoked concurrently for one engine, messages are
// in arrival order, and empty flushes invoke nothing.
type Handler interface {
	BufferFull(msgs []*relaypb.RelayMessage)
	BufferFlushed(msgs []*relaypb.RelayMessage)
}

// EngineConfig wires the engine dependencies.
type EngineConfig struct {
	Log     *zap.Logger
	Policy  Policy
	Handler Handler
	Clock   clock.Clock
}

// Engine is the per-endpoint message buffer.
type Engine struct {
	log     *zap.Logger
	policy  Policy
	handler Handler
	clk     clock.Clock

	// flushMu keeps a single flush in flight so handler callbacks
	// never overlap.
	flushMu sync.Mutex

	mu       sync.Mutex
	msgs     []*relaypb.RelayMessage
	size     int
	ageTimer *clock.Timer
}

// NewEngine builds an engine; the handler is required.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Handler == nil {
		return nil, errors.New("buffer handler is required")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Policy.MaxMessages <= 0 {
		cfg.Policy.MaxMessages = defaultMaxMessages
	}
	if cfg.Policy.MaxBytes <= 0 {
		cfg.Policy.MaxBytes = defaultMaxBytes
	}
	if cfg.Policy.MaxAge == 0 {
		cfg.Policy.MaxAge = defaultMaxAge
	}
	return &Engine{
		log:     cfg.Log,
		policy:  cfg.Policy,
		handler: cfg.Handler,
		clk:     cfg.Clock,
	}, nil
}

// Append buffers one message. The message is validated up front: a
// message that cannot be encoded never lands in the buffer.
func (e *Engine) Append(msg *relaypb.RelayMessage) error {
	raw, err := wire.EncodeMessage(msg)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.msgs = append(e.msgs, msg)
	e.size += len(raw)
	if len(e.msgs) == 1 && e.policy.MaxAge > 0 {
		e.ageTimer = e.clk.AfterFunc(e.policy.MaxAge, e.ageFlush)
	}
	full := len(e.msgs) >= e.policy.MaxMessages || e.size >= e.policy.MaxBytes
	e.mu.Unlock()

	if full {
		e.flush(false)
	}
	return nil
}

// FlushNow empties the buffer immediately, reporting the batch through
// BufferFlushed rather than BufferFull.
func (e *Engine) FlushNow() {
	e.flush(true)
}

// Len reports the number of currently buffered messages.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.msgs)
}

func (e *Engine) ageFlush() {
	e.log.Debug("buffer age threshold reached")
	e.flush(false)
}

func (e *Engine) flush(forced bool) {
	e.flushMu.Lock()
	defer e.flushMu.Unlock()

	e.mu.Lock()
	msgs := e.msgs
	e.msgs = nil
	e.size = 0
	if e.ageTimer != nil {
		e.ageTimer.Stop()
		e.ageTimer = nil
	}
	e.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	if forced {
		e.handler.BufferFlushed(msgs)
		return
	}
	e.handler.BufferFull(msgs)
}
