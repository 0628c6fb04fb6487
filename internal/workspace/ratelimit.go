package workspace

import (
	"sync"
	"time"
)

// slidingWindowLimiter enforces "at most N operations per second",
// checked on every call rather than blocking — callers get an
// immediate RateLimitError instead of waiting.
//
// This is a small hand-rolled complement to golang.org/x/time/rate:
// x/time/rate's Limiter is token-bucket (it smooths bursts by refilling
// over time), but this boundary needs a literal sliding 1-second window
// count, so the window is tracked explicitly here instead.
type slidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	times  []time.Time
}

func newSlidingWindowLimiter(limit int, window time.Duration) *slidingWindowLimiter {
	return &slidingWindowLimiter{limit: limit, window: window}
}

// Allow records an attempt at time.Now() and reports whether it is
// within the limit. Stale timestamps outside the window are pruned
// first so the check reflects only the trailing window.
func (l *slidingWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	kept := l.times[:0]
	for _, t := range l.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.times = kept

	if len(l.times) >= l.limit {
		return false
	}
	l.times = append(l.times, now)
	return true
}
