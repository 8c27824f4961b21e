// Package relay implements the per-peer relay endpoint: it buffers
// overlay messages addressed to an unreachable peer, tracks the
// outstanding push requests produced by buffer flushes, and drains
// everything when the peer polls.
package relay

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/wakerelay/wakerelay/internal/buffer"
	"github.com/wakerelay/wakerelay/internal/wire"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/zap"
)

const defaultMapUpdateInterval = 60 * time.Second

// Notifier accepts a pending push request and asynchronously attempts
// to wake the unreachable peer. Implementations must not block the
// caller; delivery outcome stays with the notifier.
type Notifier interface {
	Send(req *PendingPushRequest)
}

// ServerListUpdater is the optional notifier capability of replacing
// the set of push-delivery servers.
type ServerListUpdater interface {
	UpdateServers(addrs []string)
}

// OfflineListener observes endpoints whose peer missed the tolerance
// window. It fires on every failed liveness evaluation, not only on the
// first transition.
type OfflineListener func(peerID string)

// EndpointConfig carries the construction parameters; all are immutable
// after construction.
type EndpointConfig struct {
	Log               *zap.Logger
	Clock             clock.Clock
	Metrics           *Metrics
	UnreachablePeer   string
	RelayPeer         string
	RegistrationID    string
	MapUpdateInterval time.Duration
	Buffer            buffer.Policy
	Notifier          Notifier
}

// Endpoint coordinates buffering, push notification, and liveness for
// one unreachable peer.
type Endpoint struct {
	log            *zap.Logger
	clk            clock.Clock
	metrics        *Metrics
	peerID         string
	relayPeer      string
	registrationID string
	notifier       Notifier

	engine   *buffer.Engine
	ledger   *Ledger
	liveness *Liveness

	mu      sync.Mutex
	offline []OfflineListener
}

// NewEndpoint builds an endpoint and its owned buffer engine.
func NewEndpoint(cfg EndpointConfig) (*Endpoint, error) {
	if cfg.UnreachablePeer == "" {
		return nil, errors.New("unreachable peer id is required")
	}
	if cfg.RelayPeer == "" {
		return nil, errors.New("relay peer id is required")
	}
	if cfg.RegistrationID == "" {
		return nil, errors.New("registration id is required")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.MapUpdateInterval <= 0 {
		cfg.MapUpdateInterval = defaultMapUpdateInterval
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}

	ep := &Endpoint{
		log:            cfg.Log.With(zap.String("peer_id", cfg.UnreachablePeer)),
		clk:            cfg.Clock,
		metrics:        cfg.Metrics,
		peerID:         cfg.UnreachablePeer,
		relayPeer:      cfg.RelayPeer,
		registrationID: cfg.RegistrationID,
		notifier:       cfg.Notifier,
		ledger:         NewLedger(),
		liveness:       NewLiveness(cfg.MapUpdateInterval, cfg.Clock),
	}

	engine, err := buffer.NewEngine(buffer.EngineConfig{
		Log:     ep.log,
		Policy:  cfg.Buffer,
		Handler: ep,
		Clock:   cfg.Clock,
	})
	if err != nil {
		return nil, err
	}
	ep.engine = engine
	return ep, nil
}

// Forward accepts a message addressed to the unreachable peer, buffers
// it, and immediately answers on the peer's behalf. The caller never
// waits for actual delivery: a buffered message yields PARTIALLY_OK, a
// message that cannot be encoded yields EXCEPTION with the relay state
// untouched.
func (e *Endpoint) Forward(msg *relaypb.RelayMessage) *relaypb.RelayMessage {
	if err := e.engine.Append(msg); err != nil {
		e.log.Error("cannot buffer inbound message", zap.Error(err))
		e.metrics.RecordForwardError()
		return e.syntheticResponse(msg, relaypb.MessageType_MESSAGE_TYPE_EXCEPTION)
	}

	e.metrics.RecordBuffered()
	e.log.Debug("buffered inbound message", zap.String("message_id", msg.GetMessageId()))
	return e.syntheticResponse(msg, relaypb.MessageType_MESSAGE_TYPE_PARTIALLY_OK)
}

// BufferFull is the engine callback for fill-policy flushes: the batch
// becomes a pending request and the peer is woken through the notifier.
// The notifier call is fire-and-forget and happens outside the ledger
// lock, so a slow push channel cannot stall ingestion or polling.
func (e *Endpoint) BufferFull(msgs []*relaypb.RelayMessage) {
	req := NewPendingPushRequest(msgs, e.registrationID, e.relayPeer)
	e.ledger.Append(req)
	e.metrics.AddPendingRequests(1)

	e.notifier.Send(req)
	e.metrics.RecordPushRequested()
	e.log.Debug("push requested for flushed buffer", zap.Int("messages", len(msgs)))
}

// BufferFlushed is the engine callback for forced flushes. The batch is
// recorded like any other, but no push goes out: the peer is already
// talking to the relay.
func (e *Endpoint) BufferFlushed(msgs []*relaypb.RelayMessage) {
	req := NewPendingPushRequest(msgs, e.registrationID, e.relayPeer)
	e.ledger.Append(req)
	e.metrics.AddPendingRequests(1)
}

// Collect serves a poll from the unreachable peer: refreshes liveness,
// forces out the partial buffer, drains the ledger atomically, and
// composes everything into one wire buffer in arrival order. A nil
// buffer with a zero count means "no data", which is not an error.
// On a compose failure the ledger stays drained; the loss boundary is
// accepted rather than re-queued.
func (e *Endpoint) Collect() ([]byte, int, error) {
	e.liveness.Refresh()
	e.engine.FlushNow()

	reqs := e.ledger.DrainAll()
	var msgs []*relaypb.RelayMessage
	for _, req := range reqs {
		msgs = append(msgs, req.Messages...)
		req.complete()
	}
	e.metrics.AddPendingRequests(-len(reqs))

	if len(msgs) == 0 {
		e.log.Debug("no buffered messages to collect")
		return nil, 0, nil
	}

	buf, err := wire.ComposeBuffer(msgs)
	if err != nil {
		return nil, 0, err
	}
	e.metrics.RecordDelivered(len(msgs))
	e.log.Debug("collected buffered messages", zap.Int("messages", len(msgs)))
	return buf, len(msgs), nil
}

// PeerMapUpdated records a neighbor-table exchange with the peer. Any
// such contact proves the device is online. When the update carries a
// replacement set of push-delivery servers and the notifier supports
// server-list updates, the set is swapped in.
func (e *Endpoint) PeerMapUpdated(update *relaypb.MapUpdateRequest) {
	e.liveness.Refresh()

	servers := update.GetPushServers()
	if len(servers) == 0 {
		return
	}
	if updater, ok := e.notifier.(ServerListUpdater); ok {
		updater.UpdateServers(servers)
		e.log.Debug("push server list updated", zap.Int("servers", len(servers)))
	}
}

// Alive reports whether the peer checked in within its tolerance
// window. Every false evaluation notifies the offline listeners; the
// predicate is level-triggered, not edge-triggered.
func (e *Endpoint) Alive() bool {
	if e.liveness.Alive() {
		return true
	}

	e.log.Warn("peer missed its check-in window",
		zap.Time("last_update", e.liveness.LastUpdate()))
	e.metrics.RecordOfflineCheck()

	e.mu.Lock()
	listeners := append([]OfflineListener(nil), e.offline...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(e.peerID)
	}
	return false
}

// AddOfflineListener registers an observer for failed liveness checks.
func (e *Endpoint) AddOfflineListener(fn OfflineListener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.offline = append(e.offline, fn)
}

// PeerID returns the unreachable peer this endpoint stands in for.
func (e *Endpoint) PeerID() string {
	return e.peerID
}

// RegistrationID returns the push registration of the device.
func (e *Endpoint) RegistrationID() string {
	return e.registrationID
}

// PendingRequests reports the number of undrained push requests.
func (e *Endpoint) PendingRequests() int {
	return e.ledger.Len()
}

func (e *Endpoint) syntheticResponse(msg *relaypb.RelayMessage, typ relaypb.MessageType) *relaypb.RelayMessage {
	return &relaypb.RelayMessage{
		MessageId:      msg.GetMessageId(),
		Sender:         e.peerID,
		Recipient:      msg.GetSender(),
		Type:           typ,
		TimestampNanos: e.clk.Now().UnixNano(),
	}
}

type nopNotifier struct{}

func (nopNotifier) Send(*PendingPushRequest) {}
