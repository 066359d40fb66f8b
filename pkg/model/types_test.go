package model

import "testing"

func TestNewStickyPointsClamps(t *testing.T) {
	got := NewStickyPoints([]float64{-0.5, 0.5, 1.5}, 0.05)
	want := []float64{0.05, 0.5, 1.0}
	if len(got) != len(want) {
		t.Fatalf("Expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestNewStickyPointsEmptyUsesDefault(t *testing.T) {
	got := NewStickyPoints(nil, DefaultMinPoint)
	if got.Count() != 2 {
		t.Fatalf("Expected default of 2 points, got %d", got.Count())
	}
	if got[0] != DefaultMinPoint || got[1] != 1 {
		t.Errorf("Expected [%v 1], got %v", DefaultMinPoint, got)
	}
}

func TestNewStickyPointsDoesNotAlias(t *testing.T) {
	in := []float64{0.3, 0.6}
	got := NewStickyPoints(in, DefaultMinPoint)
	in[0] = 0.9
	if got[0] != 0.3 {
		t.Errorf("Expected copy to be unaffected, got %v", got[0])
	}
}

func TestClampStep(t *testing.T) {
	tests := []struct {
		step, count, want int
	}{
		{-3, 3, 0},
		{0, 3, 0},
		{1, 3, 1},
		{2, 3, 2},
		{7, 3, 2},
		{5, 1, 0},
		{2, 0, 0},
	}
	for _, tt := range tests {
		if got := ClampStep(tt.step, tt.count); got != tt.want {
			t.Errorf("ClampStep(%d, %d) = %d, want %d", tt.step, tt.count, got, tt.want)
		}
	}
}

func TestStickyPointsAtSaturates(t *testing.T) {
	p := StickyPoints{0.2, 0.5, 0.8}
	if p.At(-1) != 0.2 {
		t.Errorf("Expected index -1 to read index 0, got %v", p.At(-1))
	}
	if p.At(9) != 0.8 {
		t.Errorf("Expected index 9 to read last, got %v", p.At(9))
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"bottom_to_top": BottomToTop,
		"topToBottom":   TopToBottom,
		"left-to-right": LeftToRight,
		"RIGHT_TO_LEFT": RightToLeft,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil {
			t.Errorf("ParseDirection(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDirection(%q) = %v, want %v", in, got, want)
		}
		if back, _ := ParseDirection(got.String()); back != got {
			t.Errorf("String round trip failed for %v", got)
		}
	}

	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("Expected error for unknown direction")
	}
}

func TestDirectionNormalize(t *testing.T) {
	if Direction(42).Normalize() != BottomToTop {
		t.Error("Expected unknown direction to normalize to BottomToTop")
	}
	if LeftToRight.Normalize() != LeftToRight {
		t.Error("Expected valid direction to be kept")
	}
	if !TopToBottom.IsVertical() || RightToLeft.IsVertical() {
		t.Error("IsVertical mismatch")
	}
}
