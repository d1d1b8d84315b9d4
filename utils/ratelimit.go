package utils

import (
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between successive requests.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a RateLimiter with the given minimum gap in
// milliseconds. A non-positive gap disables the limiter.
func NewRateLimiter(intervalMs int) *RateLimiter {
	return &RateLimiter{
		minInterval: time.Duration(intervalMs) * time.Millisecond,
	}
}

// Wait blocks until at least the minimum interval has elapsed since the
// previous call, then stamps the current time.
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.minInterval <= 0 {
		return
	}
	if !rl.lastRequest.IsZero() {
		elapsed := time.Since(rl.lastRequest)
		if elapsed < rl.minInterval {
			time.Sleep(rl.minInterval - elapsed)
		}
	}
	rl.lastRequest = time.Now()
}
