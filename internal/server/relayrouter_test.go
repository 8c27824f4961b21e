package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wakerelay/wakerelay/internal/buffer"
	"github.com/wakerelay/wakerelay/internal/registry"
	"github.com/wakerelay/wakerelay/internal/relay"
	"github.com/wakerelay/wakerelay/internal/wire"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func TestSetupForwardPollRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	notifier := &countingNotifier{}
	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{
		RelayPeerID: "relay-1",
		Buffer:      buffer.Policy{MaxMessages: 2, MaxAge: -1},
		Notifier:    notifier,
	}))

	setup, err := client.Setup(ctx, &relaypb.SetupRequest{
		PeerId:         "device-1",
		RegistrationId: "reg-device-1",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if setup.RelayPeerId != "relay-1" {
		t.Fatalf("unexpected relay peer id %s", setup.RelayPeerId)
	}
	if setup.SessionId == "" {
		t.Fatal("expected a session id")
	}
	if setup.Status != relaypb.MessageType_MESSAGE_TYPE_OK {
		t.Fatalf("unexpected setup status %v", setup.Status)
	}

	for i, id := range []string{"m1", "m2", "m3"} {
		resp, err := client.Forward(ctx, &relaypb.ForwardRequest{Message: &relaypb.RelayMessage{
			MessageId: id,
			Sender:    "peer-x",
			Recipient: "device-1",
			Payload:   []byte("payload"),
		}})
		if err != nil {
			t.Fatalf("forward %d: %v", i, err)
		}
		if resp.Response.Type != relaypb.MessageType_MESSAGE_TYPE_PARTIALLY_OK {
			t.Fatalf("forward %d: expected PARTIALLY_OK, got %v", i, resp.Response.Type)
		}
		if resp.Response.Sender != "device-1" || resp.Response.Recipient != "peer-x" {
			t.Fatalf("forward %d: response not impersonating the device: %+v", i, resp.Response)
		}
	}

	// Two messages filled the buffer, the third is still partial, so
	// exactly one wake-up went out.
	if got := notifier.count(); got != 1 {
		t.Fatalf("expected 1 push request, got %d", got)
	}

	poll, err := client.Poll(ctx, &relaypb.PollRequest{PeerId: "device-1", RegistrationId: "reg-device-1"})
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if poll.Status != relaypb.MessageType_MESSAGE_TYPE_OK {
		t.Fatalf("expected OK poll status, got %v", poll.Status)
	}
	if poll.MessageCount != 3 {
		t.Fatalf("expected 3 messages, got %d", poll.MessageCount)
	}
	msgs, err := wire.DecomposeBuffer(poll.Buffer)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if msgs[i].MessageId != want {
			t.Fatalf("message %d out of order: got %s", i, msgs[i].MessageId)
		}
	}

	again, err := client.Poll(ctx, &relaypb.PollRequest{PeerId: "device-1"})
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if again.Status != relaypb.MessageType_MESSAGE_TYPE_NO_DATA {
		t.Fatalf("expected NO_DATA after drain, got %v", again.Status)
	}
}

func TestForwardUnknownPeerAnswersNotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{RelayPeerID: "relay-1"}))

	resp, err := client.Forward(ctx, &relaypb.ForwardRequest{Message: &relaypb.RelayMessage{
		MessageId: "m1",
		Sender:    "peer-x",
		Recipient: "nobody-home",
	}})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if resp.Response.Type != relaypb.MessageType_MESSAGE_TYPE_NOT_FOUND {
		t.Fatalf("expected NOT_FOUND, got %v", resp.Response.Type)
	}
	if resp.Response.Sender != "relay-1" || resp.Response.Recipient != "peer-x" {
		t.Fatalf("unexpected synthetic response: %+v", resp.Response)
	}
}

func TestSetupValidation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{}))

	if _, err := client.Setup(ctx, &relaypb.SetupRequest{RegistrationId: "reg"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without peer_id, got %v", err)
	}
	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without registration_id, got %v", err)
	}

	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1", RegistrationId: "reg"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1", RegistrationId: "reg"}); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted for duplicate session, got %v", err)
	}
}

func TestPollRejectsWrongRegistration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{}))

	if _, err := client.Poll(ctx, &relaypb.PollRequest{PeerId: "device-1"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound without a session, got %v", err)
	}

	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1", RegistrationId: "reg-good"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := client.Poll(ctx, &relaypb.PollRequest{PeerId: "device-1", RegistrationId: "reg-bad"}); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for wrong registration, got %v", err)
	}
}

func TestMapUpdateMergesNeighborsAndReplies(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{}))

	if _, err := client.MapUpdate(ctx, &relaypb.MapUpdateRequest{PeerId: "ghost"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound for unknown peer, got %v", err)
	}

	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1", RegistrationId: "reg"}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	resp, err := client.MapUpdate(ctx, &relaypb.MapUpdateRequest{
		PeerId: "device-1",
		Neighbors: []*relaypb.PeerEndpoint{
			{PeerId: "peer-a", Address: "10.0.0.1:7700"},
			{PeerId: "peer-b", Address: "10.0.0.2:7700"},
		},
	})
	if err != nil {
		t.Fatalf("map update: %v", err)
	}
	if len(resp.Neighbors) != 2 {
		t.Fatalf("expected 2 neighbors echoed back, got %d", len(resp.Neighbors))
	}

	resp, err = client.MapUpdate(ctx, &relaypb.MapUpdateRequest{
		PeerId:    "device-1",
		Neighbors: []*relaypb.PeerEndpoint{{PeerId: "peer-c", Address: "10.0.0.3:7700"}},
	})
	if err != nil {
		t.Fatalf("second map update: %v", err)
	}
	if len(resp.Neighbors) != 3 {
		t.Fatalf("expected accumulated view of 3 neighbors, got %d", len(resp.Neighbors))
	}
}

func TestSweepEvictsOfflineSessions(t *testing.T) {
	mock := clock.NewMock()
	reg := registry.NewInMemory(0)
	svc := NewRelayRouterService(zaptest.NewLogger(t), reg, RouterOptions{
		Metrics: newRouterMetrics(prometheus.NewRegistry()),
		Clock:   mock,
	})

	if _, err := svc.Setup(context.Background(), &relaypb.SetupRequest{
		PeerId:             "device-1",
		RegistrationId:     "reg",
		MapUpdateIntervalS: 10,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// 14s is inside the 1.5x tolerance window; nothing to evict yet.
	mock.Add(14 * time.Second)
	svc.sweep(mock.Now())
	if _, ok := reg.Get("device-1"); !ok {
		t.Fatal("session evicted inside the tolerance window")
	}

	mock.Add(2 * time.Second)
	svc.sweep(mock.Now())
	if _, ok := reg.Get("device-1"); ok {
		t.Fatal("expected offline session to be evicted")
	}
}

func TestPushFlowsThroughRelayNotifier(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	notifier := &countingNotifier{}
	client := startRouterClient(t, ctx, newTestRouter(t, RouterOptions{
		Buffer:   buffer.Policy{MaxMessages: 1, MaxAge: -1},
		Notifier: notifier,
	}))

	if _, err := client.Setup(ctx, &relaypb.SetupRequest{PeerId: "device-1", RegistrationId: "reg-1"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := client.Forward(ctx, &relaypb.ForwardRequest{Message: &relaypb.RelayMessage{
		MessageId: "m1", Sender: "peer-x", Recipient: "device-1",
	}}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	reqs := notifier.requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one push request, got %d", len(reqs))
	}
	if reqs[0].RegistrationID != "reg-1" {
		t.Fatalf("push carries wrong registration id %s", reqs[0].RegistrationID)
	}
}

func newTestRouter(t *testing.T, opts RouterOptions) *RelayRouterService {
	t.Helper()
	if opts.Metrics == nil {
		opts.Metrics = newRouterMetrics(prometheus.NewRegistry())
	}
	return NewRelayRouterService(zaptest.NewLogger(t), registry.NewInMemory(0), opts)
}

func startRouterClient(t *testing.T, ctx context.Context, svc *RelayRouterService) relaypb.RelayRouterClient {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := grpc.NewServer()
	relaypb.RegisterRelayRouterServer(srv, svc)
	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.DialContext(ctx, lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return relaypb.NewRelayRouterClient(conn)
}

type countingNotifier struct {
	mu   sync.Mutex
	reqs []*relay.PendingPushRequest
}

func (n *countingNotifier) Send(req *relay.PendingPushRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reqs = append(n.reqs, req)
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reqs)
}

func (n *countingNotifier) requests() []*relay.PendingPushRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*relay.PendingPushRequest(nil), n.reqs...)
}
