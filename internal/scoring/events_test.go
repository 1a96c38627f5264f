package scoring

import "testing"

func evaluate(t *testing.T, remaining int, doubleOut bool, darts [3]Dart) ThrowResult {
	t.Helper()
	res, err := EvaluateThrow(remaining, doubleOut, darts)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		doubleOut bool
		darts     [3]Dart
		want      string
	}{
		{
			name:      "maximum",
			remaining: 501, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 20), d(Triple, 20)},
			want:  EventMaximum,
		},
		{
			name:      "all trebles",
			remaining: 501, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 19), d(Triple, 18)},
			want:  EventTrebles,
		},
		{
			name:      "high score lower bound",
			remaining: 501, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 20), d(Single, 20)},
			want:  EventHighScore,
		},
		{
			name:      "just below high score",
			remaining: 501, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 20), d(Single, 19)},
			want:  "",
		},
		{
			name:      "ton checkout",
			remaining: 100, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Double, 20), miss()},
			want:  EventHighCheckout,
		},
		{
			name:      "bullseye finish",
			remaining: 50, doubleOut: true,
			darts: [3]Dart{miss(), miss(), d(Double, Bull)},
			want:  EventHighCheckout,
		},
		{
			name:      "big finish counts as high score first",
			remaining: 170, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 20), d(Double, Bull)},
			want:  EventHighScore,
		},
		{
			name:      "small checkout",
			remaining: 40, doubleOut: true,
			darts: [3]Dart{d(Double, 20), miss(), miss()},
			want:  "",
		},
		{
			name:      "ordinary visit",
			remaining: 501, doubleOut: true,
			darts: [3]Dart{d(Single, 20), d(Single, 1), d(Single, 5)},
			want:  "",
		},
		{
			name:      "maximum tagged even when busted",
			remaining: 100, doubleOut: true,
			darts: [3]Dart{d(Triple, 20), d(Triple, 20), d(Triple, 20)},
			want:  EventMaximum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := evaluate(t, tt.remaining, tt.doubleOut, tt.darts)
			if got := ClassifyEvent(res); got != tt.want {
				t.Errorf("ClassifyEvent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyEventNeverFiresHighCheckoutOnBust(t *testing.T) {
	// Same darts, but the finishing dart is not a double, so the throw busts.
	res := evaluate(t, 100, true, [3]Dart{d(Triple, 20), d(Single, 20), d(Single, 20)})
	if !res.IsBust() {
		t.Fatal("expected bust")
	}
	if got := ClassifyEvent(res); got == EventHighCheckout {
		t.Errorf("high_checkout must require a checkout, got %q", got)
	}
}
