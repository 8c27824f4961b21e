// Package push delivers wake-up notifications to unreachable peers
// through external push-gateway servers.
package push

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wakerelay/wakerelay/internal/relay"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	defaultDialTimeout    = 3 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

// StatusDelivered is the gateway acknowledgement for an accepted push.
const StatusDelivered = "delivered"

// SenderConfig wires the gateway sender.
type SenderConfig struct {
	Log            *zap.Logger
	Servers        []string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	Metrics        *Metrics
}

// Sender implements relay.Notifier over the PushGateway service. Every
// request is delivered fire-and-forget on its own goroutine, round-robin
// across the configured servers; the relay core never learns about
// delivery failures because the buffered messages survive in the ledger
// either way.
type Sender struct {
	log            *zap.Logger
	dialTimeout    time.Duration
	requestTimeout time.Duration
	metrics        *Metrics

	mu      sync.Mutex
	servers []string
	next    int
	conns   map[string]*grpc.ClientConn
}

// NewSender builds a sender. An empty server list is allowed; pushes
// are then dropped (and counted) until a map update supplies servers.
func NewSender(cfg SenderConfig) *Sender {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Sender{
		log:            cfg.Log,
		dialTimeout:    cfg.DialTimeout,
		requestTimeout: cfg.RequestTimeout,
		metrics:        cfg.Metrics,
		servers:        append([]string(nil), cfg.Servers...),
		conns:          make(map[string]*grpc.ClientConn),
	}
}

// Send implements relay.Notifier.
func (s *Sender) Send(req *relay.PendingPushRequest) {
	go s.deliver(req)
}

// UpdateServers implements relay.ServerListUpdater: it replaces the
// gateway set and drops cached connections to servers no longer listed.
func (s *Sender) UpdateServers(addrs []string) {
	keep := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		keep[addr] = true
	}

	s.mu.Lock()
	var stale error
	for addr, conn := range s.conns {
		if keep[addr] {
			continue
		}
		stale = multierr.Append(stale, conn.Close())
		delete(s.conns, addr)
	}
	s.servers = append([]string(nil), addrs...)
	s.next = 0
	s.mu.Unlock()

	if stale != nil {
		s.log.Warn("closing stale push gateway connections", zap.Error(stale))
	}
	s.log.Info("push gateway servers updated", zap.Int("servers", len(addrs)))
}

// Close releases all cached gateway connections.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for addr, conn := range s.conns {
		err = multierr.Append(err, conn.Close())
		delete(s.conns, addr)
	}
	return err
}

func (s *Sender) deliver(req *relay.PendingPushRequest) {
	conn, addr, err := s.pickConn()
	if err != nil {
		s.metrics.RecordFailure()
		s.log.Warn("push dropped", zap.String("registration_id", req.RegistrationID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()

	resp, err := relaypb.NewPushGatewayClient(conn).Notify(ctx, &relaypb.PushRequest{
		RegistrationId: req.RegistrationID,
		RelayPeerId:    req.RelayPeer,
		MessageCount:   int32(len(req.Messages)),
	})
	if err != nil {
		s.metrics.RecordFailure()
		s.log.Warn("push notify failed", zap.String("gateway", addr), zap.Error(err))
		return
	}
	if resp.GetStatus() != StatusDelivered {
		s.metrics.RecordFailure()
		s.log.Warn("push rejected by gateway",
			zap.String("gateway", addr), zap.String("status", resp.GetStatus()))
		return
	}

	s.metrics.RecordDelivered()
	s.log.Debug("push delivered",
		zap.String("gateway", addr), zap.Int("messages", len(req.Messages)))
}

func (s *Sender) pickConn() (*grpc.ClientConn, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.servers) == 0 {
		return nil, "", errors.New("no push gateway servers configured")
	}
	addr := s.servers[s.next%len(s.servers)]
	s.next++

	if conn, ok := s.conns[addr]; ok {
		return conn, addr, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, "", err
	}
	s.conns[addr] = conn
	return conn, addr, nil
}
