package ledger

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestConsumptionRate(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		distance float64
		want     float64
	}{
		{"zero distance", 50, 0, 0},
		{"negative distance", 50, -10, 0},
		{"typical fill", 50, 820, 6.0975},
		{"zero amount", 0, 100, 0},
	}

	for _, tt := range tests {
		got := ConsumptionRate(tt.amount, tt.distance)
		if !almostEqual(got, tt.want, 0.001) {
			t.Errorf("%s: ConsumptionRate(%v, %v) = %v, want %v", tt.name, tt.amount, tt.distance, got, tt.want)
		}
	}
}

func TestAmountUsed(t *testing.T) {
	if got := AmountUsed(100, 6); got != 6.0 {
		t.Errorf("AmountUsed(100, 6) = %v, want 6", got)
	}
	if got := AmountUsed(0, 6); got != 0 {
		t.Errorf("AmountUsed(0, 6) = %v, want 0", got)
	}
}

func TestRemainingLevel(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		used     float64
		added    float64
		capacity float64
		want     float64
	}{
		{"normal", 30, 5, 0, 66, 25},
		{"fill capped at capacity", 30, 5, 50, 66, 66},
		{"driven below zero", 3, 10, 0, 66, 0},
		{"exact capacity", 60, 0, 6, 66, 66},
	}

	for _, tt := range tests {
		got := RemainingLevel(tt.previous, tt.used, tt.added, tt.capacity)
		if got != tt.want {
			t.Errorf("%s: RemainingLevel = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// 剩余量必须始终落在 [0, capacity] 区间
func TestRemainingLevelClamped(t *testing.T) {
	inputs := []struct{ prev, used, added float64 }{
		{-100, 50, 0}, {0, 0, 1e9}, {66, 1e9, 0}, {30, -5, -10},
	}
	const capacity = 66.0
	for _, in := range inputs {
		got := RemainingLevel(in.prev, in.used, in.added, capacity)
		if got < 0 || got > capacity {
			t.Errorf("RemainingLevel(%v, %v, %v, %v) = %v out of [0, %v]", in.prev, in.used, in.added, capacity, got, capacity)
		}
	}
}

func TestMarginPercent(t *testing.T) {
	if got := MarginPercent(7.2, 6.0); !almostEqual(got, 20.0, 0.001) {
		t.Errorf("MarginPercent(7.2, 6.0) = %v, want 20", got)
	}
	if got := MarginPercent(5.0, 0); got != 0 {
		t.Errorf("MarginPercent(5.0, 0) = %v, want 0", got)
	}
	if got := MarginPercent(5.0, -1); got != 0 {
		t.Errorf("MarginPercent(5.0, -1) = %v, want 0", got)
	}
}

func TestIsWithinLegalLimit(t *testing.T) {
	if !IsWithinLegalLimit(20.0) {
		t.Error("IsWithinLegalLimit(20.0) = false, want true")
	}
	if !IsWithinLegalLimit(20.0005) {
		t.Error("IsWithinLegalLimit(20.0005) = false, want true (within epsilon)")
	}
	if IsWithinLegalLimit(20.0011) {
		t.Error("IsWithinLegalLimit(20.0011) = true, want false")
	}
	if !IsWithinLegalLimit(-5) {
		t.Error("IsWithinLegalLimit(-5) = false, want true")
	}
}

func TestBufferDistance(t *testing.T) {
	if got := BufferDistance(65.49, 820, 5.1, 0.18); !almostEqual(got, 268.29, 1.0) {
		t.Errorf("BufferDistance(65.49, 820, 5.1, 0.18) = %v, want ~268.29", got)
	}
	if got := BufferDistance(50, 1000, 5.1, 0.18); got != 0 {
		t.Errorf("BufferDistance(50, 1000, 5.1, 0.18) = %v, want 0 (already under target)", got)
	}
	if got := BufferDistance(50, 100, 0, 0.18); got != 0 {
		t.Errorf("BufferDistance with zero reference rate = %v, want 0", got)
	}
}
