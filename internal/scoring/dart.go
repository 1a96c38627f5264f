package scoring

import "fmt"

// Dart multipliers as entered on the scoreboard.
const (
	Miss   = 0
	Single = 1
	Double = 2
	Triple = 3
)

// Bull is the 25 segment. Its double (the bullseye) scores 50; there is no
// triple bull.
const (
	Bull          = 25
	BullseyeScore = 50
)

// Dart is a single thrown dart.
type Dart struct {
	Multiplier int `json:"multiplier"`
	Segment    int `json:"segment"`
}

// Score returns the point value of the dart. A miss scores zero whatever
// segment was sent with it; everything else is validated.
func (d Dart) Score() (int, error) {
	if d.Multiplier == Miss {
		return 0, nil
	}
	if d.Multiplier < Single || d.Multiplier > Triple {
		return 0, Errorf(KindInvalidInput, "multiplier %d out of range", d.Multiplier)
	}
	if d.Segment == Bull {
		if d.Multiplier == Triple {
			return 0, NewError(KindInvalidInput, "triple bull does not exist")
		}
		if d.Multiplier == Double {
			return BullseyeScore, nil
		}
		return Bull, nil
	}
	if d.Segment < 1 || d.Segment > 20 {
		return 0, Errorf(KindInvalidInput, "segment %d out of range", d.Segment)
	}
	return d.Multiplier * d.Segment, nil
}

// IsDouble reports whether the dart qualifies as a finishing double. The
// bullseye is entered as D25, so it qualifies without a special case.
func (d Dart) IsDouble() bool {
	return d.Multiplier == Double
}

// String renders the dart in scoreboard notation: S5, D16, T20, "-" for a miss.
func (d Dart) String() string {
	switch d.Multiplier {
	case Miss:
		return "-"
	case Double:
		return fmt.Sprintf("D%d", d.Segment)
	case Triple:
		return fmt.Sprintf("T%d", d.Segment)
	default:
		return fmt.Sprintf("S%d", d.Segment)
	}
}
