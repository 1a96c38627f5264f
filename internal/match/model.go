package match

import (
	"time"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

// Match lifecycle status values.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// Player is a roster entry. The roster is a thin external collaborator: the
// scoring core only needs identities and names.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Match is a best-of-sets contest between two players.
type Match struct {
	ID             string     `json:"id"`
	HomePlayerID   string     `json:"homePlayerId"`
	AwayPlayerID   string     `json:"awayPlayerId"`
	BestOfSets     int        `json:"bestOfSets"`
	BestOfLegs     int        `json:"bestOfLegs"`
	StartingScore  int        `json:"startingScore"`
	DoubleOut      bool       `json:"doubleOut"`
	AlternateStart bool       `json:"alternateStart"`
	Status         string     `json:"status"`
	HomeSets       int        `json:"homeSets"`
	AwaySets       int        `json:"awaySets"`
	CreatedAt      time.Time  `json:"createdAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// SetsToWin is the match-win threshold.
func (m Match) SetsToWin() int { return m.BestOfSets/2 + 1 }

// LegsToWin is the set-win threshold.
func (m Match) LegsToWin() int { return m.BestOfLegs/2 + 1 }

// Set groups legs within a match.
type Set struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	SetNumber int       `json:"setNumber"`
	HomeLegs  int       `json:"homeLegs"`
	AwayLegs  int       `json:"awayLegs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Finished reports whether either side has reached the leg-win threshold.
func (s Set) Finished(legsToWin int) bool {
	return s.HomeLegs >= legsToWin || s.AwayLegs >= legsToWin
}

// HomeWinner reports whether home took the set.
func (s Set) HomeWinner(legsToWin int) bool {
	return s.HomeLegs >= legsToWin
}

// Leg is a single game down to zero.
type Leg struct {
	ID            string     `json:"id"`
	SetID         string     `json:"setId"`
	LegNumber     int        `json:"legNumber"`
	StartingScore int        `json:"startingScore"`
	HomePlayerID  string     `json:"homePlayerId"`
	AwayPlayerID  string     `json:"awayPlayerId"`
	StartsHome    bool       `json:"startsHome"`
	WinnerID      *string    `json:"winnerId,omitempty"`
	TotalDarts    *int       `json:"totalDarts,omitempty"`
	CheckoutScore *int       `json:"checkoutScore,omitempty"`
	StartedAt     time.Time  `json:"startedAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
}

// Throw is one persisted three-dart turn.
type Throw struct {
	ID          string                             `json:"id"`
	LegID       string                             `json:"legId"`
	PlayerID    string                             `json:"playerId"`
	ThrowNumber int                                `json:"throwNumber"`
	Darts       [scoring.DartsPerTurn]scoring.Dart `json:"darts"`
	ThrowTotal  int                                `json:"throwTotal"`
	IsBust      bool                               `json:"isBust"`
	IsCheckout  bool                               `json:"isCheckout"`
	CreatedAt   time.Time                          `json:"createdAt"`
}

// -----------------------------------------------------------------------------
// Requests
// -----------------------------------------------------------------------------

// CreatePlayerRequest is the body for POST /api/players.
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// CreateMatchRequest is the body for POST /api/matches.
type CreateMatchRequest struct {
	HomePlayerID   string `json:"homePlayerId"`
	AwayPlayerID   string `json:"awayPlayerId"`
	BestOfSets     int    `json:"bestOfSets"`
	BestOfLegs     int    `json:"bestOfLegs"`
	StartingScore  *int   `json:"startingScore"` // defaults to 501
	DoubleOut      *bool  `json:"doubleOut"`     // defaults to true
	AlternateStart bool   `json:"alternateStart"`
}

// ThrowRequest is the body for POST /api/matches/{id}/throws.
type ThrowRequest struct {
	LegID string         `json:"legId"`
	Darts []scoring.Dart `json:"darts"`
}

// LegRequest addresses the open leg for bust/advance/undo operations.
type LegRequest struct {
	LegID string `json:"legId"`
}

// -----------------------------------------------------------------------------
// Responses
// -----------------------------------------------------------------------------

// PlayerSnapshot is one side of a live leg.
type PlayerSnapshot struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	RemainingScore int     `json:"remainingScore"`
	Average        float64 `json:"average"`
	LastThrow      string  `json:"lastThrow,omitempty"`
}

// LegSnapshot is the live view of a leg.
type LegSnapshot struct {
	ID            string         `json:"id"`
	SetNumber     int            `json:"setNumber"`
	LegNumber     int            `json:"legNumber"`
	HomePlayer    PlayerSnapshot `json:"homePlayer"`
	AwayPlayer    PlayerSnapshot `json:"awayPlayer"`
	CurrentPlayer string         `json:"currentPlayer"` // "home" or "away"
	TurnLocked    bool           `json:"turnLocked"`
	Finished      bool           `json:"finished"`
	WinnerID      string         `json:"winnerId,omitempty"`
}

// ThrowResponse is returned by throw, bust and undo operations.
type ThrowResponse struct {
	ThrowID        string      `json:"throwId,omitempty"`
	ThrowTotal     int         `json:"throwTotal"`
	RemainingScore int         `json:"remainingScore"`
	IsBust         bool        `json:"isBust"`
	IsCheckout     bool        `json:"isCheckout"`
	Event          string      `json:"event,omitempty"`
	LegFinished    bool        `json:"legFinished"`
	SetFinished    bool        `json:"setFinished"`
	MatchFinished  bool        `json:"matchFinished"`
	NextLegID      string      `json:"nextLegId,omitempty"`
	Leg            LegSnapshot `json:"leg"`
}

// LiveSnapshot is the full live-scoring view of a match.
type LiveSnapshot struct {
	MatchID    string      `json:"matchId"`
	Status     string      `json:"status"`
	HomeSets   int         `json:"homeSets"`
	AwaySets   int         `json:"awaySets"`
	CurrentSet int         `json:"currentSet"`
	CurrentLeg int         `json:"currentLeg"`
	Leg        LegSnapshot `json:"leg"`
}

// MatchDetail is a match with its sets, for GET /api/matches/{id}.
type MatchDetail struct {
	Match Match `json:"match"`
	Sets  []Set `json:"sets"`
}
