package match

import (
	"context"
	"sync"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

// legEntry bundles a live engine with the rows it was built from and a mutex
// that serializes every mutating operation on the leg. Turn state lives only
// here; it is never persisted.
type legEntry struct {
	mu sync.Mutex

	eng   *scoring.Leg
	leg   Leg
	set   Set
	match Match
}

// registry caches live leg engines by leg ID. Distinct legs share nothing and
// proceed independently; one leg admits at most one mutating operation at a
// time.
type registry struct {
	mu    sync.Mutex
	store Store
	legs  map[string]*legEntry
}

func newRegistry(store Store) *registry {
	return &registry{store: store, legs: make(map[string]*legEntry)}
}

// acquire returns the entry for a leg with its mutex held. The caller must
// release() it. On first access the engine is rebuilt from stored history.
// An entry can be evicted while a caller waits on its mutex, so after locking
// the caller re-checks that the entry is still the registered one and starts
// over if it is not; otherwise two entries could serve the same leg.
func (r *registry) acquire(ctx context.Context, legID string) (*legEntry, error) {
	for {
		r.mu.Lock()
		e, ok := r.legs[legID]
		if !ok {
			e = &legEntry{}
			r.legs[legID] = e
		}
		r.mu.Unlock()

		e.mu.Lock()
		r.mu.Lock()
		stale := r.legs[legID] != e
		r.mu.Unlock()
		if stale {
			e.mu.Unlock()
			continue
		}

		if e.eng == nil {
			if err := r.load(ctx, e, legID); err != nil {
				r.evict(legID)
				e.mu.Unlock()
				return nil, err
			}
		}
		return e, nil
	}
}

func (e *legEntry) release() {
	e.mu.Unlock()
}

// seed registers a freshly created leg without touching the store again.
func (r *registry) seed(leg Leg, set Set, m Match, eng *scoring.Leg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legs[leg.ID] = &legEntry{eng: eng, leg: leg, set: set, match: m}
}

func (r *registry) evict(legID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.legs, legID)
}

func (r *registry) load(ctx context.Context, e *legEntry, legID string) error {
	leg, set, m, err := r.store.GetLegContext(ctx, legID)
	if err != nil {
		return err
	}
	home, err := r.store.GetPlayer(ctx, leg.HomePlayerID)
	if err != nil {
		return err
	}
	away, err := r.store.GetPlayer(ctx, leg.AwayPlayerID)
	if err != nil {
		return err
	}
	throws, err := r.store.ListThrows(ctx, legID)
	if err != nil {
		return err
	}

	restored := make([]scoring.RestoredThrow, 0, len(throws))
	for _, t := range throws {
		side := scoring.SideHome
		if t.PlayerID == leg.AwayPlayerID {
			side = scoring.SideAway
		}
		restored = append(restored, scoring.RestoredThrow{
			Side:  side,
			Darts: t.Darts,
			Bust:  t.IsBust,
		})
	}

	starter := scoring.SideHome
	if !leg.StartsHome {
		starter = scoring.SideAway
	}
	eng, err := scoring.RestoreLeg(
		leg.StartingScore, m.DoubleOut,
		scoring.Player{ID: home.ID, Name: home.Name},
		scoring.Player{ID: away.ID, Name: away.Name},
		starter, restored,
	)
	if err != nil {
		return err
	}

	e.eng = eng
	e.leg = leg
	e.set = set
	e.match = m
	return nil
}
