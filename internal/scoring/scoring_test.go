package scoring

import (
	"testing"
	"time"
)

func TestScoreDecaysWithLatency(t *testing.T) {
	rule := DefaultRule()
	limit := 10 * time.Second

	testCases := []struct {
		name     string
		latency  time.Duration
		expected int
	}{
		{"instant answer earns max", 0, 1000},
		{"quarter of the limit", 2500 * time.Millisecond, 875},
		{"half the limit", 5 * time.Second, 750},
		{"three quarters", 7500 * time.Millisecond, 625},
		{"just inside the limit", 9999 * time.Millisecond, 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := rule.Score(tc.latency, limit, true, 1.0)
			if got != tc.expected {
				t.Errorf("Score(%v) = %d, want %d", tc.latency, got, tc.expected)
			}
		})
	}

	// The decay is genuine: a faster correct answer always earns
	// strictly more than a slower one. Flat full credit would fail here.
	fast := rule.Score(1*time.Second, limit, true, 1.0)
	slow := rule.Score(8*time.Second, limit, true, 1.0)
	if fast <= slow {
		t.Errorf("expected decaying scores, got fast=%d slow=%d", fast, slow)
	}
}

func TestScoreZeroCases(t *testing.T) {
	rule := DefaultRule()
	limit := 10 * time.Second

	testCases := []struct {
		name    string
		latency time.Duration
		correct bool
	}{
		{"wrong answer", time.Second, false},
		{"wrong and instant", 0, false},
		{"exactly at the limit", limit, true},
		{"past the limit", limit + time.Second, true},
		{"negative latency", -time.Second, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rule.Score(tc.latency, limit, tc.correct, 1.0); got != 0 {
				t.Errorf("Score(%v, correct=%v) = %d, want 0", tc.latency, tc.correct, got)
			}
		})
	}

	if got := rule.Score(time.Second, 0, true, 1.0); got != 0 {
		t.Errorf("zero limit should score 0, got %d", got)
	}
}

func TestScoreDifficultyMultiplier(t *testing.T) {
	rule := DefaultRule()
	limit := 10 * time.Second

	base := rule.Score(5*time.Second, limit, true, 1.0)
	medium := rule.Score(5*time.Second, limit, true, 1.2)
	hard := rule.Score(5*time.Second, limit, true, 1.5)

	if medium != 900 {
		t.Errorf("medium multiplier: got %d, want 900", medium)
	}
	if hard != 1125 {
		t.Errorf("hard multiplier: got %d, want 1125", hard)
	}
	if !(base < medium && medium < hard) {
		t.Errorf("expected base < medium < hard, got %d %d %d", base, medium, hard)
	}
}

func TestScoreDeterministic(t *testing.T) {
	rule := Rule{MaxPoints: 400, TimeBonusWeight: 0.25}
	limit := 8 * time.Second
	for i := 0; i < 5; i++ {
		if got := rule.Score(3*time.Second, limit, true, 1.0); got != 363 {
			t.Fatalf("run %d: got %d, want 363", i, got)
		}
	}
}
