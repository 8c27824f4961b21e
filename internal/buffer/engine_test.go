package buffer

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/wakerelay/wakerelay/internal/wire"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
	"go.uber.org/zap/zaptest"
)

func TestAppendFlushesWhenCountThresholdHit(t *testing.T) {
	h := newRecordingHandler()
	engine := newTestEngine(t, Policy{MaxMessages: 3, MaxAge: -1}, h, clock.NewMock())

	for i := 0; i < 3; i++ {
		if err := engine.Append(testMessage(fmt.Sprintf("m%d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	full, flushed := h.batches()
	if len(full) != 1 || len(flushed) != 0 {
		t.Fatalf("expected one full batch, got full=%d flushed=%d", len(full), len(flushed))
	}
	if got := ids(full[0]); got != "m0,m1,m2" {
		t.Fatalf("expected arrival order, got %s", got)
	}
	if engine.Len() != 0 {
		t.Fatalf("expected buffer empty after flush, got %d", engine.Len())
	}
}

func TestAppendFlushesWhenByteThresholdHit(t *testing.T) {
	h := newRecordingHandler()
	engine := newTestEngine(t, Policy{MaxMessages: 100, MaxBytes: 64, MaxAge: -1}, h, clock.NewMock())

	msg := testMessage("big")
	msg.Payload = make([]byte, 128)
	if err := engine.Append(msg); err != nil {
		t.Fatalf("append: %v", err)
	}

	full, _ := h.batches()
	if len(full) != 1 {
		t.Fatalf("expected byte threshold flush, got %d batches", len(full))
	}
}

func TestAgeThresholdFlushesAsFull(t *testing.T) {
	mock := clock.NewMock()
	h := newRecordingHandler()
	engine := newTestEngine(t, Policy{MaxMessages: 100, MaxAge: 5 * time.Second}, h, mock)

	if err := engine.Append(testMessage("m0")); err != nil {
		t.Fatalf("append: %v", err)
	}

	mock.Add(4 * time.Second)
	if full, _ := h.batches(); len(full) != 0 {
		t.Fatalf("flush before age threshold")
	}

	mock.Add(2 * time.Second)
	full, flushed := h.batches()
	if len(full) != 1 || len(flushed) != 0 {
		t.Fatalf("expected age flush via BufferFull, got full=%d flushed=%d", len(full), len(flushed))
	}
}

func TestFlushNowReportsFlushedAndSkipsEmpty(t *testing.T) {
	h := newRecordingHandler()
	engine := newTestEngine(t, Policy{MaxAge: -1}, h, clock.NewMock())

	engine.FlushNow()
	if full, flushed := h.batches(); len(full) != 0 || len(flushed) != 0 {
		t.Fatalf("empty flush must not invoke callbacks")
	}

	if err := engine.Append(testMessage("m0")); err != nil {
		t.Fatalf("append: %v", err)
	}
	engine.FlushNow()

	full, flushed := h.batches()
	if len(full) != 0 || len(flushed) != 1 {
		t.Fatalf("expected forced flush via BufferFlushed, got full=%d flushed=%d", len(full), len(flushed))
	}
	if got := ids(flushed[0]); got != "m0" {
		t.Fatalf("unexpected batch %s", got)
	}
}

func TestAppendRejectsUnencodableMessage(t *testing.T) {
	h := newRecordingHandler()
	engine := newTestEngine(t, Policy{MaxAge: -1}, h, clock.NewMock())

	bad := testMessage("bad")
	bad.Recipient = ""
	if err := engine.Append(bad); !errors.Is(err, wire.ErrMalformedMessage) {
		t.Fatalf("expected malformed error, got %v", err)
	}
	if engine.Len() != 0 {
		t.Fatalf("rejected message must not be buffered")
	}
}

func newTestEngine(t *testing.T, policy Policy, h Handler, clk clock.Clock) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{
		Log:     zaptest.NewLogger(t),
		Policy:  policy,
		Handler: h,
		Clock:   clk,
	})
	if err != nil {
		t.Fatalf("init engine: %v", err)
	}
	return engine
}

func testMessage(id string) *relaypb.RelayMessage {
	return &relaypb.RelayMessage{
		MessageId: id,
		Sender:    "sender-peer",
		Recipient: "mobile-peer",
	}
}

func ids(msgs []*relaypb.RelayMessage) string {
	out := ""
	for i, m := range msgs {
		if i > 0 {
			out += ","
		}
		out += m.MessageId
	}
	return out
}

type recordingHandler struct {
	mu      sync.Mutex
	full    [][]*relaypb.RelayMessage
	flushed [][]*relaypb.RelayMessage
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{}
}

func (h *recordingHandler) BufferFull(msgs []*relaypb.RelayMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.full = append(h.full, msgs)
}

func (h *recordingHandler) BufferFlushed(msgs []*relaypb.RelayMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushed = append(h.flushed, msgs)
}

func (h *recordingHandler) batches() (full, flushed [][]*relaypb.RelayMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]*relaypb.RelayMessage(nil), h.full...), append([][]*relaypb.RelayMessage(nil), h.flushed...)
}
