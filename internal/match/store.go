package match

import "context"

// CommitRequest is the persistence plan for one committed throw, including
// whatever the lifecycle cascade decided: leg finish, set/match counter
// updates, and the next set/leg to seed. The store executes the whole plan in
// a single transaction so readers never observe a half-applied cascade.
type CommitRequest struct {
	Throw Throw

	// FinishLeg carries the winner fields when the throw checked out.
	FinishLeg *LegFinish

	// SetUpdate/MatchUpdate carry already-incremented counters (and, for the
	// match, a possible finished status) to write back by ID.
	SetUpdate   *Set
	MatchUpdate *Match

	// NextSet/NextLeg are rows to create. When NextSet is present, NextLeg
	// belongs to it and the store fills in the generated set ID.
	NextSet *Set
	NextLeg *Leg
}

// LegFinish is the terminal state written to a finished leg.
type LegFinish struct {
	LegID         string
	WinnerID      string
	TotalDarts    int
	CheckoutScore int
}

// CommitResult reports what the store persisted, with generated IDs.
type CommitResult struct {
	Throw   Throw
	NextSet *Set
	NextLeg *Leg
}

// Store is the persistence surface the scoring service needs.
type Store interface {
	CreatePlayer(ctx context.Context, name string) (Player, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id string) (Player, error)

	CreateMatch(ctx context.Context, m Match) (Match, error)
	GetMatch(ctx context.Context, id string) (Match, error)
	ListSets(ctx context.Context, matchID string) ([]Set, error)

	// ActivateMatch flips a scheduled match live and seeds its first set and
	// leg in one transaction.
	ActivateMatch(ctx context.Context, matchID string, set Set, leg Leg) (Match, Set, Leg, error)

	// FinishMatch marks a live match finished (administrative override or
	// natural cascade end).
	FinishMatch(ctx context.Context, matchID string) (Match, error)

	GetLegContext(ctx context.Context, legID string) (Leg, Set, Match, error)
	CurrentLeg(ctx context.Context, matchID string) (Leg, Set, error)
	ListThrows(ctx context.Context, legID string) ([]Throw, error)

	CommitThrow(ctx context.Context, req CommitRequest) (CommitResult, error)
	DeleteLastThrow(ctx context.Context, legID string) error
}
