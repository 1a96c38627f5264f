package scoring

// Side indices within a leg.
const (
	SideHome = 0
	SideAway = 1
)

// SideName returns "home" or "away" for a side index.
func SideName(side int) string {
	if side == SideAway {
		return "away"
	}
	return "home"
}

// Player identifies one participant of a leg. The roster itself is managed
// elsewhere; the engine only needs identities.
type Player struct {
	ID   string
	Name string
}

// CommittedThrow is one entry in a player's throw history.
type CommittedThrow struct {
	ThrowNumber int // 1-based, per player
	Side        int
	Result      ThrowResult
	Event       string
}

// Leg is the live scoring engine for a single leg.
//
// Remaining scores are always derived from the throw history, never cached,
// so history and score cannot diverge. A Leg is not safe for concurrent use;
// callers serialize access per leg.
type Leg struct {
	startingScore int
	doubleOut     bool
	players       [2]Player
	starter       int

	history [2][]CommittedThrow
	ledger  []int // acting side of each commit, in order
	locked  bool

	finished      bool
	winner        int
	totalDarts    int
	checkoutValue int
}

// NewLeg creates a fresh leg. Both players must be present and distinct:
// the engine refuses to fabricate a placeholder opponent.
func NewLeg(startingScore int, doubleOut bool, home, away Player, starter int) (*Leg, error) {
	if home.ID == "" || away.ID == "" || home.ID == away.ID {
		return nil, NewError(KindInsufficientPlayers, "a leg needs two distinct players")
	}
	if startingScore < 2 {
		return nil, Errorf(KindInvalidInput, "starting score %d too low", startingScore)
	}
	if starter != SideHome && starter != SideAway {
		return nil, Errorf(KindInvalidInput, "starter side %d out of range", starter)
	}
	return &Leg{
		startingScore: startingScore,
		doubleOut:     doubleOut,
		players:       [2]Player{home, away},
		starter:       starter,
		winner:        -1,
	}, nil
}

func (l *Leg) StartingScore() int { return l.startingScore }
func (l *Leg) DoubleOut() bool    { return l.doubleOut }
func (l *Leg) Starter() int       { return l.starter }
func (l *Leg) Finished() bool     { return l.finished }
func (l *Leg) TurnLocked() bool   { return l.locked }

func (l *Leg) Player(side int) Player {
	return l.players[side]
}

// Winner returns the winning player once the leg is finished.
func (l *Leg) Winner() (Player, bool) {
	if !l.finished {
		return Player{}, false
	}
	return l.players[l.winner], true
}

// WinnerSide returns the winning side index, or -1 while the leg is open.
func (l *Leg) WinnerSide() int { return l.winner }

// TotalDarts is the number of darts the winner needed, counted up to and
// including the decisive dart.
func (l *Leg) TotalDarts() int { return l.totalDarts }

// CheckoutValue is the total of the winning throw.
func (l *Leg) CheckoutValue() int { return l.checkoutValue }

// History returns the committed throws of one side, oldest first.
func (l *Leg) History(side int) []CommittedThrow {
	return l.history[side]
}

// ThrowCount returns the number of committed throws across both sides.
func (l *Leg) ThrowCount() int {
	return len(l.ledger)
}

// ActingSide returns the side whose turn it is. While a turn is locked that
// is still the side that just threw; otherwise whichever side has thrown no
// more times than the other acts, starter first. Deriving this from throw
// counts keeps turn order correct even after busts.
func (l *Leg) ActingSide() int {
	if l.locked && len(l.ledger) > 0 {
		return l.ledger[len(l.ledger)-1]
	}
	other := 1 - l.starter
	if len(l.history[l.starter]) <= len(l.history[other]) {
		return l.starter
	}
	return other
}

// Remaining derives a side's remaining score from its throw history.
func (l *Leg) Remaining(side int) int {
	remaining := l.startingScore
	for _, t := range l.history[side] {
		if !t.Result.IsBust() {
			remaining -= t.Result.ThrowTotal
		}
	}
	return remaining
}

// Average is the side's three-dart average: non-bust points over the number
// of throws taken, busts included in the divisor.
func (l *Leg) Average(side int) float64 {
	n := len(l.history[side])
	if n == 0 {
		return 0
	}
	sum := 0
	for _, t := range l.history[side] {
		if !t.Result.IsBust() {
			sum += t.Result.ThrowTotal
		}
	}
	return float64(sum) / float64(n)
}

// LastThrow returns the most recent commit on either side.
func (l *Leg) LastThrow() (CommittedThrow, bool) {
	if len(l.ledger) == 0 {
		return CommittedThrow{}, false
	}
	side := l.ledger[len(l.ledger)-1]
	hist := l.history[side]
	return hist[len(hist)-1], true
}

// SubmitThrow evaluates and commits a full three-dart throw for the acting
// player. Every commit locks the turn: bust and checkout decide it, and three
// darts exhaust it. The caller must advance before the next player throws.
func (l *Leg) SubmitThrow(darts [DartsPerTurn]Dart) (CommittedThrow, error) {
	if l.finished {
		return CommittedThrow{}, NewError(KindTerminalState, "leg is already finished")
	}
	if l.locked {
		return CommittedThrow{}, NewError(KindTurnLocked, "turn is decided; advance to the next player first")
	}
	side := l.ActingSide()
	result, err := EvaluateThrow(l.Remaining(side), l.doubleOut, darts)
	if err != nil {
		return CommittedThrow{}, err
	}
	return l.commit(side, result), nil
}

// MarkBust commits a no-score bust for the acting player, consuming the turn
// exactly like a thrown bust would.
func (l *Leg) MarkBust() (CommittedThrow, error) {
	if l.finished {
		return CommittedThrow{}, NewError(KindTerminalState, "leg is already finished")
	}
	if l.locked {
		return CommittedThrow{}, NewError(KindTurnLocked, "turn is decided; advance to the next player first")
	}
	side := l.ActingSide()
	result := ThrowResult{
		Outcome:        OutcomeBust,
		RemainingAfter: l.Remaining(side),
		Decisive:       -1,
	}
	return l.commit(side, result), nil
}

func (l *Leg) commit(side int, result ThrowResult) CommittedThrow {
	ct := CommittedThrow{
		ThrowNumber: len(l.history[side]) + 1,
		Side:        side,
		Result:      result,
		Event:       ClassifyEvent(result),
	}
	l.history[side] = append(l.history[side], ct)
	l.ledger = append(l.ledger, side)
	l.locked = true

	if result.IsCheckout() {
		l.finished = true
		l.winner = side
		l.totalDarts = (ct.ThrowNumber-1)*DartsPerTurn + result.Decisive + 1
		l.checkoutValue = result.ThrowTotal
	}
	return ct
}

// AdvanceTurn hands the turn to the next player. Only a decided turn can be
// advanced; calling it mid-turn is a sequencing mistake.
func (l *Leg) AdvanceTurn() error {
	if l.finished {
		return NewError(KindTerminalState, "leg is already finished")
	}
	if !l.locked {
		return NewError(KindTurnLocked, "turn is still open")
	}
	l.locked = false
	return nil
}

// Undo reverses the most recent commit: the throw is removed from its
// player's history, which restores their pre-throw remaining score, and the
// turn reopens for that player. Works across an advanced turn boundary, since
// the ledger records who committed. A finished leg is terminal and cannot be
// unwound.
func (l *Leg) Undo() (CommittedThrow, error) {
	if l.finished {
		return CommittedThrow{}, NewError(KindTerminalState, "leg is already finished")
	}
	if len(l.ledger) == 0 {
		return CommittedThrow{}, NewError(KindEmptyHistory, "no throw to undo")
	}
	side := l.ledger[len(l.ledger)-1]
	l.ledger = l.ledger[:len(l.ledger)-1]

	hist := l.history[side]
	ct := hist[len(hist)-1]
	l.history[side] = hist[:len(hist)-1]
	l.locked = false
	return ct, nil
}

// RestoredThrow is one persisted throw used to rebuild a live engine.
type RestoredThrow struct {
	Side  int
	Darts [DartsPerTurn]Dart
	Bust  bool // set for explicit mark-bust turns
}

// RestoreLeg rebuilds a leg engine from persisted history, in commit order.
// Turn lock state is ephemeral and never persisted, so the rebuilt leg ends
// with an open turn for the derived next actor.
func RestoreLeg(startingScore int, doubleOut bool, home, away Player, starter int, throws []RestoredThrow) (*Leg, error) {
	l, err := NewLeg(startingScore, doubleOut, home, away, starter)
	if err != nil {
		return nil, err
	}
	for i, t := range throws {
		if l.locked {
			if err := l.AdvanceTurn(); err != nil {
				return nil, err
			}
		}
		if got := l.ActingSide(); got != t.Side {
			return nil, Errorf(KindInvalidInput, "stored throw %d out of turn order: side %d, want %d", i+1, t.Side, got)
		}
		if t.Bust && dartsTotalZero(t.Darts) {
			if _, err := l.MarkBust(); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := l.SubmitThrow(t.Darts); err != nil {
			return nil, err
		}
	}
	l.locked = false
	return l, nil
}

func dartsTotalZero(darts [DartsPerTurn]Dart) bool {
	for _, d := range darts {
		if d.Multiplier != Miss {
			return false
		}
	}
	return true
}
