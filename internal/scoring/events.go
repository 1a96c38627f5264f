package scoring

// Event tags for notable throws. At most one tag applies per throw; tagging is
// observability only and never influences scoring.
const (
	EventMaximum      = "180"           // perfect three-dart score
	EventTrebles      = "171"           // maximum reachable with trebles only
	EventHighScore    = "140_plus"      // 140 or better
	EventHighCheckout = "high_checkout" // 100+ finish, or a bullseye finish
)

// ClassifyEvent tags a committed throw, or returns "" for an unremarkable
// one. Totals are judged on the raw dart sum regardless of bust, matching the
// scoreboard convention of celebrating the darts as thrown.
func ClassifyEvent(r ThrowResult) string {
	switch {
	case r.ThrowTotal == 180:
		return EventMaximum
	case r.ThrowTotal == 171:
		return EventTrebles
	case r.ThrowTotal >= 140:
		return EventHighScore
	}
	if r.IsCheckout() {
		if r.ThrowTotal >= 100 {
			return EventHighCheckout
		}
		if r.Decisive >= 0 && r.DartScores[r.Decisive] == BullseyeScore {
			return EventHighCheckout
		}
	}
	return ""
}
