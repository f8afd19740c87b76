package ratelimit

import (
	"testing"
	"time"
)

func TestRateLimitState_IsStale(t *testing.T) {
	tests := []struct {
		name       string
		lastUpdate time.Time
		maxAge     time.Duration
		expected   bool
	}{
		{"fresh state", time.Now(), 5 * time.Minute, false},
		{"stale state", time.Now().Add(-10 * time.Minute), 5 * time.Minute, true},
		{"just under max age", time.Now().Add(-4 * time.Minute), 5 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &RateLimitState{LastUpdate: tt.lastUpdate}
			if got := state.IsStale(tt.maxAge); got != tt.expected {
				t.Errorf("IsStale() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRateLimitState_Decisions(t *testing.T) {
	future := time.Now().Add(60 * time.Second)
	past := time.Now().Add(-time.Second)

	tests := []struct {
		name           string
		remaining      int
		resetAt        time.Time
		expectBlock    bool
		expectThrottle bool
		expectHealthy  bool
	}{
		{"healthy", 100, future, false, false, true},
		{"at healthy threshold", ThresholdHealthy, future, false, false, true},
		{"between warning and healthy", 30, future, false, false, false},
		{"warning", 15, future, false, true, false},
		{"at critical threshold", ThresholdCritical, future, false, true, false},
		{"critical", 3, future, true, false, false},
		{"critical but window reset", 0, past, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &RateLimitState{Remaining: tt.remaining, ResetAt: tt.resetAt}
			state.UpdateHealth()

			if got := state.NeedsCriticalBlock(); got != tt.expectBlock {
				t.Errorf("NeedsCriticalBlock() = %v, want %v", got, tt.expectBlock)
			}
			if got := state.NeedsThrottling(); got != tt.expectThrottle {
				t.Errorf("NeedsThrottling() = %v, want %v", got, tt.expectThrottle)
			}
			if state.IsHealthy != tt.expectHealthy {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.expectHealthy)
			}
		})
	}
}

func TestRateLimitState_TimeUntilReset(t *testing.T) {
	state := &RateLimitState{ResetAt: time.Now().Add(-time.Minute)}
	if d := state.TimeUntilReset(); d != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0", d)
	}

	state = &RateLimitState{ResetAt: time.Now().Add(30 * time.Second)}
	if d := state.TimeUntilReset(); d <= 0 || d > 30*time.Second {
		t.Errorf("TimeUntilReset() = %v, want (0, 30s]", d)
	}
}
