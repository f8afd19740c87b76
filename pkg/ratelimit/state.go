// Package ratelimit tracks the upstream request budget advertised through
// X-RateLimit-Remaining and X-RateLimit-Reset response headers and gates
// requests when the budget runs low. Responses without those headers leave
// the tracked state untouched, so an API that never sends them is never gated.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "rmp:rate_limit:remaining"
	RedisKeyResetTimestamp = "rmp:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "rmp:rate_limit:last_update"
)

// Response headers carrying the upstream budget.
const (
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// Thresholds for rate limit decisions.
const (
	// ThresholdCritical blocks requests while fewer requests than this remain.
	ThresholdCritical = 5

	// ThresholdWarning throttles requests while fewer requests than this remain.
	ThresholdWarning = 20

	// ThresholdHealthy marks the budget as healthy at or above this value.
	ThresholdHealthy = 50
)

// RateLimitState is the last observed upstream request budget.
type RateLimitState struct {
	// Remaining is the number of requests left in the current window.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets, derived from the reset header
	// (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when the state was last written.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than maxAge.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
// A window that has already reset never blocks.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.Remaining < ThresholdCritical && s.TimeUntilReset() > 0
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && s.TimeUntilReset() > 0 && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the window resets, or 0.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates IsHealthy from Remaining.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}
