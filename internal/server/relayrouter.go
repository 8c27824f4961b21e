package server

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/wakerelay/wakerelay/internal/buffer"
	"github.com/wakerelay/wakerelay/internal/registry"
	"github.com/wakerelay/wakerelay/internal/relay"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RouterOptions configures the relay surface and its lifecycle hooks.
type RouterOptions struct {
	Metrics           *routerMetrics
	RelayMetrics      *relay.Metrics
	Clock             clock.Clock
	RelayPeerID       string
	MapUpdateInterval time.Duration
	SweepInterval     time.Duration
	NeighborMaxAge    time.Duration
	Buffer            buffer.Policy
	Notifier          relay.Notifier
	Neighbors         registry.NeighborView
}

// RelayRouterService implements the gRPC RelayRouter contract: it opens
// relay sessions for unreachable peers, routes overlay traffic into
// their buffers, and serves the drain when the device polls.
type RelayRouterService struct {
	relaypb.UnimplementedRelayRouterServer
	log          *zap.Logger
	registry     registry.RelayRegistry
	metrics      *routerMetrics
	relayMetrics *relay.Metrics
	clk          clock.Clock
	notifier     relay.Notifier
	neighbors    registry.NeighborView
	houseOnce    sync.Once

	relayPeerID       string
	mapUpdateInterval time.Duration
	sweepInterval     time.Duration
	neighborMaxAge    time.Duration
	bufferPolicy      buffer.Policy
}

// NewRelayRouterService wires dependencies for the gRPC handler.
func NewRelayRouterService(log *zap.Logger, reg registry.RelayRegistry, opts RouterOptions) *RelayRouterService {
	if reg == nil {
		reg = registry.NewInMemory(0)
	}
	svc := &RelayRouterService{
		log:               log,
		registry:          reg,
		metrics:           opts.Metrics,
		relayMetrics:      opts.RelayMetrics,
		clk:               opts.Clock,
		notifier:          opts.Notifier,
		neighbors:         opts.Neighbors,
		relayPeerID:       opts.RelayPeerID,
		mapUpdateInterval: opts.MapUpdateInterval,
		sweepInterval:     opts.SweepInterval,
		neighborMaxAge:    opts.NeighborMaxAge,
		bufferPolicy:      opts.Buffer,
	}
	if svc.clk == nil {
		svc.clk = clock.New()
	}
	if svc.relayPeerID == "" {
		svc.relayPeerID = "wakerelay-" + uuid.NewString()
	}
	if svc.mapUpdateInterval <= 0 {
		svc.mapUpdateInterval = time.Minute
	}
	if svc.sweepInterval <= 0 {
		svc.sweepInterval = 30 * time.Second
	}
	if svc.neighborMaxAge <= 0 {
		svc.neighborMaxAge = 10 * time.Minute
	}
	if svc.neighbors == nil {
		svc.neighbors = registry.NewNeighborView()
	}
	return svc
}

// StartHousekeeping launches the periodic sweep that evicts sessions
// whose peer stopped checking in and forgets stale neighbors.
func (s *RelayRouterService) StartHousekeeping(ctx context.Context) {
	s.houseOnce.Do(func() {
		ticker := time.NewTicker(s.sweepInterval)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.sweep(time.Now())
				}
			}
		}()
	})
}

// Setup opens a relay session for an unreachable peer.
func (s *RelayRouterService) Setup(_ context.Context, req *relaypb.SetupRequest) (*relaypb.SetupResponse, error) {
	start := time.Now()

	resp, err := s.handleSetup(req)
	s.observe("setup", start, err)
	return resp, err
}

func (s *RelayRouterService) handleSetup(req *relaypb.SetupRequest) (*relaypb.SetupResponse, error) {
	if req.GetPeerId() == "" {
		return nil, status.Error(codes.InvalidArgument, "peer_id is required")
	}
	if req.GetRegistrationId() == "" {
		return nil, status.Error(codes.InvalidArgument, "registration_id is required")
	}

	interval := s.mapUpdateInterval
	if secs := req.GetMapUpdateIntervalS(); secs > 0 {
		interval = time.Duration(secs) * time.Second
	}

	policy := s.bufferPolicy
	if b := req.GetBuffer(); b != nil {
		if b.GetMaxMessages() > 0 {
			policy.MaxMessages = int(b.GetMaxMessages())
		}
		if b.GetMaxBytes() > 0 {
			policy.MaxBytes = int(b.GetMaxBytes())
		}
		if ms := b.GetMaxAgeMs(); ms != 0 {
			policy.MaxAge = time.Duration(ms) * time.Millisecond
		}
	}

	ep, err := relay.NewEndpoint(relay.EndpointConfig{
		Log:               s.log,
		Clock:             s.clk,
		Metrics:           s.relayMetrics,
		UnreachablePeer:   req.GetPeerId(),
		RelayPeer:         s.relayPeerID,
		RegistrationID:    req.GetRegistrationId(),
		MapUpdateInterval: interval,
		Buffer:            policy,
		Notifier:          s.notifier,
	})
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "open relay endpoint: %v", err)
	}
	ep.AddOfflineListener(func(peerID string) {
		s.log.Info("relayed peer reported offline", zap.String("peer_id", peerID))
	})

	sess := registry.RelaySession{
		PeerID:         req.GetPeerId(),
		RegistrationID: req.GetRegistrationId(),
		SessionID:      uuid.NewString(),
		Endpoint:       ep,
	}
	if err := s.registry.Register(sess); err != nil {
		return nil, status.Errorf(codes.ResourceExhausted, "register relay session: %v", err)
	}
	s.metrics.incSession()
	s.log.Info("relay session opened",
		zap.String("peer_id", sess.PeerID),
		zap.String("session_id", sess.SessionID),
		zap.Duration("map_update_interval", interval))

	return &relaypb.SetupResponse{
		RelayPeerId: s.relayPeerID,
		SessionId:   sess.SessionID,
		Status:      relaypb.MessageType_MESSAGE_TYPE_OK,
	}, nil
}

// Forward routes one overlay message toward an unreachable peer. The
// answer is always synthetic: the relay speaks for the device, whether
// the message was buffered or the peer is unknown here.
func (s *RelayRouterService) Forward(_ context.Context, req *relaypb.ForwardRequest) (*relaypb.ForwardResponse, error) {
	start := time.Now()

	msg := req.GetMessage()
	if msg == nil {
		err := status.Error(codes.InvalidArgument, "message is required")
		s.observe("forward", start, err)
		return nil, err
	}

	sess, ok := s.registry.Get(msg.GetRecipient())
	if !ok {
		s.observe("forward", start, status.Error(codes.NotFound, "no session"))
		s.log.Debug("forward for unknown peer", zap.String("recipient", msg.GetRecipient()))
		return &relaypb.ForwardResponse{Response: &relaypb.RelayMessage{
			MessageId:      msg.GetMessageId(),
			Sender:         s.relayPeerID,
			Recipient:      msg.GetSender(),
			Type:           relaypb.MessageType_MESSAGE_TYPE_NOT_FOUND,
			TimestampNanos: s.clk.Now().UnixNano(),
		}}, nil
	}

	resp := sess.Endpoint.Forward(msg)
	s.observe("forward", start, nil)
	return &relaypb.ForwardResponse{Response: resp}, nil
}

// Poll serves a device check-in: everything buffered since the last
// poll comes back in one composed buffer, in arrival order.
func (s *RelayRouterService) Poll(_ context.Context, req *relaypb.PollRequest) (*relaypb.PollResponse, error) {
	start := time.Now()

	resp, err := s.handlePoll(req)
	s.observe("poll", start, err)
	return resp, err
}

func (s *RelayRouterService) handlePoll(req *relaypb.PollRequest) (*relaypb.PollResponse, error) {
	sess, ok := s.registry.Get(req.GetPeerId())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "no relay session for peer %s", req.GetPeerId())
	}
	if reg := req.GetRegistrationId(); reg != "" && reg != sess.RegistrationID {
		return nil, status.Error(codes.PermissionDenied, "registration id does not match the session")
	}

	buf, count, err := sess.Endpoint.Collect()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "collect buffered messages: %v", err)
	}
	if count == 0 {
		return &relaypb.PollResponse{Status: relaypb.MessageType_MESSAGE_TYPE_NO_DATA}, nil
	}
	return &relaypb.PollResponse{
		Status:       relaypb.MessageType_MESSAGE_TYPE_OK,
		Buffer:       buf,
		MessageCount: int32(count),
	}, nil
}

// MapUpdate records a neighbor-table exchange from a relayed device and
// answers with the relay's own overlay view.
func (s *RelayRouterService) MapUpdate(_ context.Context, req *relaypb.MapUpdateRequest) (*relaypb.MapUpdateResponse, error) {
	start := time.Now()

	resp, err := s.handleMapUpdate(req)
	s.observe("map_update", start, err)
	return resp, err
}

func (s *RelayRouterService) handleMapUpdate(req *relaypb.MapUpdateRequest) (*relaypb.MapUpdateResponse, error) {
	sess, ok := s.registry.Get(req.GetPeerId())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "no relay session for peer %s", req.GetPeerId())
	}
	sess.Endpoint.PeerMapUpdated(req)

	now := s.clk.Now()
	reported := make([]registry.NeighborPresence, 0, len(req.GetNeighbors()))
	for _, n := range req.GetNeighbors() {
		reported = append(reported, registry.NeighborPresence{
			PeerID:   n.GetPeerId(),
			Address:  n.GetAddress(),
			LastSeen: now,
		})
	}
	if err := s.neighbors.Merge(reported, now); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "merge neighbors: %v", err)
	}

	snapshot := s.neighbors.Snapshot()
	s.metrics.setNeighbors(len(snapshot))

	out := make([]*relaypb.PeerEndpoint, 0, len(snapshot))
	for _, n := range snapshot {
		out = append(out, &relaypb.PeerEndpoint{PeerId: n.PeerID, Address: n.Address})
	}
	return &relaypb.MapUpdateResponse{Neighbors: out}, nil
}

// sweep walks every session and evicts the ones whose peer missed its
// check-in window, then forgets neighbors nobody reported recently.
func (s *RelayRouterService) sweep(now time.Time) {
	for _, sess := range s.registry.List() {
		if sess.Endpoint.Alive() {
			continue
		}
		if s.registry.Delete(sess.PeerID) {
			s.metrics.decSession()
			s.metrics.recordEviction()
			s.log.Info("evicted offline relay session",
				zap.String("peer_id", sess.PeerID),
				zap.String("session_id", sess.SessionID),
				zap.Int("pending_requests", sess.Endpoint.PendingRequests()))
		}
	}

	if evicted := s.neighbors.EvictStale(s.neighborMaxAge, now); evicted > 0 {
		s.log.Debug("evicted stale neighbors", zap.Int("count", evicted))
	}
	s.metrics.setNeighbors(len(s.neighbors.Snapshot()))
}

func (s *RelayRouterService) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.observeLatency(op, time.Since(start))
	if err != nil {
		s.metrics.recordError(status.Code(err).String())
	}
}
