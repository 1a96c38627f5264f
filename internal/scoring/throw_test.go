package scoring

import (
	"errors"
	"testing"
)

func d(mult, seg int) Dart { return Dart{Multiplier: mult, Segment: seg} }

func miss() Dart { return Dart{} }

func TestEvaluateThrowNormal(t *testing.T) {
	res, err := EvaluateThrow(501, true, [3]Dart{d(Triple, 20), d(Triple, 20), d(Triple, 20)})
	if err != nil {
		t.Fatal(err)
	}
	if res.ThrowTotal != 180 {
		t.Errorf("ThrowTotal = %d, want 180", res.ThrowTotal)
	}
	if res.RemainingAfter != 321 {
		t.Errorf("RemainingAfter = %d, want 321", res.RemainingAfter)
	}
	if res.Outcome != OutcomeNormal {
		t.Errorf("Outcome = %v, want normal", res.Outcome)
	}
}

func TestEvaluateThrowOvershootBust(t *testing.T) {
	res, err := EvaluateThrow(40, true, [3]Dart{d(Triple, 20), miss(), miss()})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBust() {
		t.Fatal("expected bust")
	}
	if res.RemainingAfter != 40 {
		t.Errorf("bust must not change remaining: got %d", res.RemainingAfter)
	}
}

func TestEvaluateThrowCheckoutOnDouble(t *testing.T) {
	res, err := EvaluateThrow(100, true, [3]Dart{d(Triple, 20), d(Double, 20), miss()})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsCheckout() {
		t.Fatalf("expected checkout, got %v", res.Outcome)
	}
	if res.RemainingAfter != 0 {
		t.Errorf("RemainingAfter = %d, want 0", res.RemainingAfter)
	}
	if res.Decisive != 1 {
		t.Errorf("Decisive = %d, want 1 (trailing miss must not shift it)", res.Decisive)
	}
}

func TestEvaluateThrowBullseyeCheckout(t *testing.T) {
	res, err := EvaluateThrow(50, true, [3]Dart{miss(), miss(), d(Double, Bull)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsCheckout() {
		t.Fatalf("bullseye must finish under double-out, got %v", res.Outcome)
	}
	if res.DartScores[2] != 50 {
		t.Errorf("bullseye score = %d, want 50", res.DartScores[2])
	}
}

func TestEvaluateThrowZeroWithoutDoubleBusts(t *testing.T) {
	res, err := EvaluateThrow(60, true, [3]Dart{d(Single, 20), d(Single, 20), d(Single, 20)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBust() {
		t.Fatalf("reaching zero without a double must bust, got %v", res.Outcome)
	}
	if res.RemainingAfter != 60 {
		t.Errorf("RemainingAfter = %d, want 60", res.RemainingAfter)
	}
}

func TestEvaluateThrowZeroWithoutDoubleOutRule(t *testing.T) {
	res, err := EvaluateThrow(60, false, [3]Dart{d(Single, 20), d(Single, 20), d(Single, 20)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsCheckout() {
		t.Fatalf("any path to zero finishes without double-out, got %v", res.Outcome)
	}
	if res.Decisive != 2 {
		t.Errorf("Decisive = %d, want 2", res.Decisive)
	}
}

func TestEvaluateThrowLeaveOneBusts(t *testing.T) {
	res, err := EvaluateThrow(27, true, [3]Dart{d(Single, 20), d(Single, 5), d(Single, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBust() {
		t.Fatalf("leaving 1 under double-out must bust, got %v", res.Outcome)
	}
	if res.RemainingAfter != 27 {
		t.Errorf("RemainingAfter = %d, want 27", res.RemainingAfter)
	}
}

func TestEvaluateThrowFromOneAlwaysBusts(t *testing.T) {
	throws := [][3]Dart{
		{miss(), miss(), miss()},
		{d(Single, 1), miss(), miss()},
		{d(Triple, 20), d(Triple, 20), d(Triple, 20)},
	}
	for _, darts := range throws {
		res, err := EvaluateThrow(1, true, darts)
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsBust() {
			t.Errorf("EvaluateThrow(1, doubleOut, %v) = %v, want bust", darts, res.Outcome)
		}
		if res.RemainingAfter != 1 {
			t.Errorf("RemainingAfter = %d, want 1", res.RemainingAfter)
		}
	}
}

func TestEvaluateThrowLeaveOneWithoutDoubleOut(t *testing.T) {
	res, err := EvaluateThrow(2, false, [3]Dart{d(Single, 1), miss(), miss()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeNormal || res.RemainingAfter != 1 {
		t.Errorf("got %v remaining %d, want normal remaining 1", res.Outcome, res.RemainingAfter)
	}
}

func TestEvaluateThrowInvalidDart(t *testing.T) {
	_, err := EvaluateThrow(501, true, [3]Dart{d(Triple, Bull), miss(), miss()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want invalid input", err)
	}
}

func TestEvaluateThrowBustKeepsRawTotal(t *testing.T) {
	res, err := EvaluateThrow(100, true, [3]Dart{d(Triple, 20), d(Triple, 20), d(Triple, 20)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBust() {
		t.Fatal("expected bust")
	}
	if res.ThrowTotal != 180 {
		t.Errorf("ThrowTotal = %d, want raw 180 even on bust", res.ThrowTotal)
	}
}
