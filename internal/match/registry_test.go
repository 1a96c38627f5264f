package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

func TestAcquireRetriesEvictedEntry(t *testing.T) {
	f := startMatch(t, CreateMatchRequest{BestOfSets: 1, BestOfLegs: 1})
	ctx := context.Background()

	reg := newRegistry(f.store)
	e1, err := reg.acquire(ctx, f.legID)
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan *legEntry, 1)
	go func() {
		e, err := reg.acquire(ctx, f.legID)
		if err != nil {
			t.Errorf("concurrent acquire: %v", err)
			got <- nil
			return
		}
		e.release()
		got <- e
	}()

	// Let the second acquire block on the held entry, then pull the entry out
	// from under it.
	time.Sleep(20 * time.Millisecond)
	reg.evict(f.legID)
	e1.release()

	e2 := <-got
	if e2 == nil {
		t.Fatal("concurrent acquire failed")
	}
	if e2 == e1 {
		t.Error("acquire handed out the evicted entry")
	}
	reg.mu.Lock()
	current := reg.legs[f.legID]
	reg.mu.Unlock()
	if e2 != current {
		t.Error("acquire returned an entry that is not the registered one")
	}
	if e2.eng == nil {
		t.Error("retried entry must carry a rebuilt engine")
	}
}

func TestAcquireLoadFailureLeavesNoEntry(t *testing.T) {
	f := startMatch(t, CreateMatchRequest{BestOfSets: 1, BestOfLegs: 1})
	ctx := context.Background()

	reg := newRegistry(f.store)
	if _, err := reg.acquire(ctx, "ghost"); !errors.Is(err, scoring.ErrNotFound) {
		t.Fatalf("unknown leg: error = %v, want not found", err)
	}
	reg.mu.Lock()
	_, cached := reg.legs["ghost"]
	reg.mu.Unlock()
	if cached {
		t.Error("failed load must not leave a cached entry")
	}

	e, err := reg.acquire(ctx, f.legID)
	if err != nil {
		t.Fatal(err)
	}
	e.release()
}
