package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
)

func TestLedgerDrainReturnsInsertionOrder(t *testing.T) {
	ledger := NewLedger()
	for i := 0; i < 5; i++ {
		ledger.Append(NewPendingPushRequest(
			[]*relaypb.RelayMessage{{MessageId: fmt.Sprintf("m%d", i)}}, "reg", "relay"))
	}

	reqs := ledger.DrainAll()
	if len(reqs) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(reqs))
	}
	for i, req := range reqs {
		if want := fmt.Sprintf("m%d", i); req.Messages[0].MessageId != want {
			t.Fatalf("request %d out of order: got %s", i, req.Messages[0].MessageId)
		}
	}
	if ledger.Len() != 0 {
		t.Fatalf("expected empty ledger after drain, got %d", ledger.Len())
	}
}

func TestLedgerConcurrentAppendAndDrainLosesNothing(t *testing.T) {
	const (
		producers   = 8
		perProducer = 200
	)

	ledger := NewLedger()

	producersDone := make(chan struct{})
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ledger.Append(NewPendingPushRequest(
					[]*relaypb.RelayMessage{{MessageId: fmt.Sprintf("p%d-m%d", p, i)}}, "reg", "relay"))
			}
		}(p)
	}
	go func() {
		wg.Wait()
		close(producersDone)
	}()

	seen := make(map[string]bool)
	record := func(batch []*PendingPushRequest) {
		for _, req := range batch {
			id := req.Messages[0].MessageId
			if seen[id] {
				t.Errorf("request %s drained twice", id)
			}
			seen[id] = true
		}
	}

	// Drain concurrently with the producers, then take one final
	// snapshot after all appends finished.
	for draining := true; draining; {
		select {
		case <-producersDone:
			draining = false
		default:
		}
		record(ledger.DrainAll())
	}
	record(ledger.DrainAll())

	if len(seen) != producers*perProducer {
		t.Fatalf("expected %d drained requests, got %d", producers*perProducer, len(seen))
	}
}

func TestPendingRequestCompletesOnce(t *testing.T) {
	req := NewPendingPushRequest(nil, "reg", "relay")

	select {
	case <-req.Done():
		t.Fatal("request completed before drain")
	default:
	}

	req.complete()
	req.complete()

	select {
	case <-req.Done():
	default:
		t.Fatal("request not completed")
	}
}
