package scoring

import (
	"errors"
	"testing"
)

func TestDartScoreNumbers(t *testing.T) {
	for mult := 0; mult <= 3; mult++ {
		for seg := 1; seg <= 20; seg++ {
			d := Dart{Multiplier: mult, Segment: seg}
			got, err := d.Score()
			if err != nil {
				t.Fatalf("Score(%v) returned error: %v", d, err)
			}
			want := mult * seg
			if mult == Miss {
				want = 0
			}
			if got != want {
				t.Errorf("Score(%v) = %d, want %d", d, got, want)
			}
		}
	}
}

func TestDartScoreBull(t *testing.T) {
	tests := []struct {
		dart Dart
		want int
	}{
		{Dart{Multiplier: Single, Segment: Bull}, 25},
		{Dart{Multiplier: Double, Segment: Bull}, 50},
		{Dart{Multiplier: Miss, Segment: Bull}, 0},
	}
	for _, tt := range tests {
		got, err := tt.dart.Score()
		if err != nil {
			t.Fatalf("Score(%v) returned error: %v", tt.dart, err)
		}
		if got != tt.want {
			t.Errorf("Score(%v) = %d, want %d", tt.dart, got, tt.want)
		}
	}
}

func TestDartScoreInvalid(t *testing.T) {
	tests := []Dart{
		{Multiplier: Triple, Segment: Bull}, // no triple bull
		{Multiplier: 4, Segment: 20},
		{Multiplier: -1, Segment: 20},
		{Multiplier: Single, Segment: 0},
		{Multiplier: Single, Segment: 21},
		{Multiplier: Double, Segment: 24},
	}
	for _, d := range tests {
		if _, err := d.Score(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Score(%v) error = %v, want invalid input", d, err)
		}
	}
}

func TestDartScoreMissIgnoresSegment(t *testing.T) {
	// Scoreboards send segment 0 (or anything) with a miss.
	for _, seg := range []int{0, 7, 23, 99} {
		d := Dart{Multiplier: Miss, Segment: seg}
		got, err := d.Score()
		if err != nil || got != 0 {
			t.Errorf("Score(%v) = %d, %v, want 0, nil", d, got, err)
		}
	}
}

func TestDartString(t *testing.T) {
	tests := []struct {
		dart Dart
		want string
	}{
		{Dart{Multiplier: Miss}, "-"},
		{Dart{Multiplier: Single, Segment: 5}, "S5"},
		{Dart{Multiplier: Double, Segment: 16}, "D16"},
		{Dart{Multiplier: Triple, Segment: 20}, "T20"},
		{Dart{Multiplier: Double, Segment: Bull}, "D25"},
	}
	for _, tt := range tests {
		if got := tt.dart.String(); got != tt.want {
			t.Errorf("String(%+v) = %q, want %q", tt.dart, got, tt.want)
		}
	}
}
