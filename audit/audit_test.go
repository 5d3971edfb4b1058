package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryRecorder(t *testing.T) {
	r := NewMemoryRecorder()
	ctx := context.Background()

	d := Decision{
		Time:       time.Now(),
		Backend:    "wordlist",
		Role:       "user",
		Action:     ActionBlocked,
		Reason:     "denied term",
		Confidence: 1,
	}
	if err := r.Record(ctx, d); err != nil {
		t.Fatalf("record: %v", err)
	}

	got := r.Decisions()
	if len(got) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(got))
	}
	if got[0].Action != ActionBlocked || got[0].Backend != "wordlist" {
		t.Fatalf("unexpected decision: %+v", got[0])
	}
}

func TestMemoryRecorderReturnsCopy(t *testing.T) {
	r := NewMemoryRecorder()
	_ = r.Record(context.Background(), Decision{Action: ActionAllowed})

	got := r.Decisions()
	got[0].Action = "tampered"

	if r.Decisions()[0].Action != ActionAllowed {
		t.Fatalf("Decisions must return a copy")
	}
}

func TestMemoryRecorderConcurrent(t *testing.T) {
	r := NewMemoryRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Record(context.Background(), Decision{Action: ActionAllowed})
		}()
	}
	wg.Wait()

	if len(r.Decisions()) != 64 {
		t.Fatalf("expected 64 decisions, got %d", len(r.Decisions()))
	}
}
