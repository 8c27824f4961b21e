package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wakerelay/wakerelay/internal/wire"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type peerConfig struct {
	relayAddr    string
	peerID       string
	role         string
	target       string
	payload      []byte
	count        int
	pollInterval time.Duration
	timeout      time.Duration
}

func main() {
	cfg := parseConfig()
	if err := run(cfg); err != nil {
		log.Fatalf("mock peer failed: %v", err)
	}
	log.Printf("mock peer role %s completed", cfg.role)
}

func parseConfig() peerConfig {
	var cfg peerConfig
	var payload string
	flag.StringVar(&cfg.relayAddr, "relay", "127.0.0.1:7700", "gRPC address for the relay node")
	flag.StringVar(&cfg.peerID, "peer-id", "", "Peer ID for this mock peer (defaults to a random one)")
	flag.StringVar(&cfg.role, "role", "device", "Role for this peer (device|sender)")
	flag.StringVar(&cfg.target, "target", "", "Recipient peer ID (sender role)")
	flag.StringVar(&payload, "payload", "mock-overlay-payload", "Payload to relay (sender role)")
	flag.IntVar(&cfg.count, "count", 3, "Number of messages to forward (sender role)")
	flag.DurationVar(&cfg.pollInterval, "poll-interval", 5*time.Second, "Poll cadence (device role)")
	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "Overall timeout for the flow")
	flag.Parse()

	switch cfg.role {
	case "device", "sender":
	default:
		log.Fatalf("unsupported role %s (expected device or sender)", cfg.role)
	}
	if cfg.peerID == "" {
		cfg.peerID = cfg.role + "-" + uuid.NewString()
	}
	if cfg.role == "sender" && cfg.target == "" {
		log.Fatal("sender role requires -target")
	}

	cfg.payload = []byte(payload)
	return cfg
}

func run(cfg peerConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, cfg.relayAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	defer conn.Close()

	client := relaypb.NewRelayRouterClient(conn)
	if cfg.role == "sender" {
		return runSender(ctx, client, cfg)
	}
	return runDevice(ctx, client, cfg)
}

// runDevice registers as an unreachable peer and polls the relay until
// the timeout, reporting its own presence through map updates.
func runDevice(ctx context.Context, client relaypb.RelayRouterClient, cfg peerConfig) error {
	setup, err := client.Setup(ctx, &relaypb.SetupRequest{
		PeerId:             cfg.peerID,
		RegistrationId:     "mock-registration-" + cfg.peerID,
		MapUpdateIntervalS: uint32(cfg.pollInterval / time.Second),
	})
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	log.Printf("relay session %s opened on %s", setup.SessionId, setup.RelayPeerId)

	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	received := 0
	for {
		select {
		case <-ctx.Done():
			log.Printf("device received %d messages in total", received)
			return nil
		case <-ticker.C:
		}

		poll, err := client.Poll(ctx, &relaypb.PollRequest{
			PeerId:         cfg.peerID,
			RegistrationId: "mock-registration-" + cfg.peerID,
		})
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if poll.Status == relaypb.MessageType_MESSAGE_TYPE_NO_DATA {
			continue
		}

		msgs, err := wire.DecomposeBuffer(poll.Buffer)
		if err != nil {
			return fmt.Errorf("decompose poll buffer: %w", err)
		}
		for _, msg := range msgs {
			log.Printf("received %s from %s (%d bytes)", msg.MessageId, msg.Sender, len(msg.Payload))
		}
		received += len(msgs)

		if _, err := client.MapUpdate(ctx, &relaypb.MapUpdateRequest{
			PeerId: cfg.peerID,
			Neighbors: []*relaypb.PeerEndpoint{
				{PeerId: cfg.peerID, Address: "device-local"},
			},
		}); err != nil {
			return fmt.Errorf("map update: %w", err)
		}
	}
}

// runSender fires messages at the target peer and verifies the relay
// answers on the device's behalf.
func runSender(ctx context.Context, client relaypb.RelayRouterClient, cfg peerConfig) error {
	for i := 0; i < cfg.count; i++ {
		resp, err := client.Forward(ctx, &relaypb.ForwardRequest{Message: &relaypb.RelayMessage{
			MessageId:      uuid.NewString(),
			Sender:         cfg.peerID,
			Recipient:      cfg.target,
			Type:           relaypb.MessageType_MESSAGE_TYPE_REQUEST,
			Payload:        cfg.payload,
			TimestampNanos: time.Now().UnixNano(),
		}})
		if err != nil {
			return fmt.Errorf("forward %d: %w", i, err)
		}

		switch resp.Response.Type {
		case relaypb.MessageType_MESSAGE_TYPE_PARTIALLY_OK:
			log.Printf("message %d buffered for %s", i, cfg.target)
		case relaypb.MessageType_MESSAGE_TYPE_NOT_FOUND:
			return fmt.Errorf("target %s has no relay session", cfg.target)
		default:
			return fmt.Errorf("unexpected response type %v", resp.Response.Type)
		}
	}
	return nil
}
