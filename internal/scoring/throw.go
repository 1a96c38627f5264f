package scoring

// DartsPerTurn is fixed for x01 play.
const DartsPerTurn = 3

// Outcome is the result class of an evaluated throw.
type Outcome int

const (
	OutcomeNormal Outcome = iota
	OutcomeBust
	OutcomeCheckout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBust:
		return "bust"
	case OutcomeCheckout:
		return "checkout"
	default:
		return "normal"
	}
}

// ThrowResult is the evaluated outcome of one three-dart throw.
//
// ThrowTotal is always the raw sum of the dart scores, even on a bust; a bust
// simply leaves RemainingAfter at the pre-throw score.
type ThrowResult struct {
	Darts          [DartsPerTurn]Dart `json:"darts"`
	DartScores     [DartsPerTurn]int  `json:"dartScores"`
	ThrowTotal     int                `json:"throwTotal"`
	RemainingAfter int                `json:"remainingAfter"`
	Outcome        Outcome            `json:"-"`

	// Decisive is the index of the dart that brought the running remaining
	// to exactly zero, or -1 when the throw is not a checkout.
	Decisive int `json:"-"`
}

func (r ThrowResult) IsBust() bool     { return r.Outcome == OutcomeBust }
func (r ThrowResult) IsCheckout() bool { return r.Outcome == OutcomeCheckout }

// EvaluateThrow applies one three-dart throw to a remaining score.
//
// The branches, in order: overshoot below zero busts; exactly zero is a
// checkout when no double is required or when the dart that reached zero is a
// double (trailing misses after it are fine), otherwise a bust; leaving
// exactly 1 under double-out busts, since no double can finish from 1;
// anything else is a normal scoring throw. A bust never changes the
// remaining score.
func EvaluateThrow(remainingBefore int, doubleOut bool, darts [DartsPerTurn]Dart) (ThrowResult, error) {
	res := ThrowResult{Darts: darts, Decisive: -1}
	for i, d := range darts {
		pts, err := d.Score()
		if err != nil {
			return ThrowResult{}, err
		}
		res.DartScores[i] = pts
		res.ThrowTotal += pts
	}

	tentative := remainingBefore - res.ThrowTotal
	switch {
	case tentative < 0:
		res.Outcome = OutcomeBust
		res.RemainingAfter = remainingBefore
	case tentative == 0:
		decisive := finishingDart(res.DartScores)
		if doubleOut && (decisive < 0 || !darts[decisive].IsDouble()) {
			res.Outcome = OutcomeBust
			res.RemainingAfter = remainingBefore
			break
		}
		res.Outcome = OutcomeCheckout
		res.RemainingAfter = 0
		res.Decisive = decisive
	case doubleOut && tentative == 1:
		res.Outcome = OutcomeBust
		res.RemainingAfter = remainingBefore
	default:
		res.Outcome = OutcomeNormal
		res.RemainingAfter = tentative
	}
	return res, nil
}

// finishingDart returns the index of the last scoring dart, i.e. the one that
// reached zero when the totals add up; -1 if no dart scored.
func finishingDart(scores [DartsPerTurn]int) int {
	for i := DartsPerTurn - 1; i >= 0; i-- {
		if scores[i] > 0 {
			return i
		}
	}
	return -1
}
