package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a simple in-memory sliding-window rate limiter.
// Not suitable for multi-instance deployments — use a shared store if
// scaling horizontally.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string][]time.Time
	maxRequests int
	window      time.Duration

	lastCleanup time.Time
	now         func() time.Time // overridable in tests
}

const cleanupInterval = 5 * time.Minute

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		entries:     make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow reports whether a request under key fits in the window. When it
// does not, retryAfter is how long the caller should wait.
func (l *Limiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	cutoff := now.Add(-l.window)
	kept := l.entries[key][:0]
	for _, t := range l.entries[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.entries[key] = kept

	if len(kept) >= l.maxRequests {
		retryAfter = kept[0].Add(l.window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	l.entries[key] = append(kept, now)
	return true, 0
}

// cleanup drops stale keys so the map does not grow without bound.
// Caller holds the lock.
func (l *Limiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}
	l.lastCleanup = now

	cutoff := now.Add(-l.window)
	for key, times := range l.entries {
		kept := times[:0]
		for _, t := range times {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(l.entries, key)
		} else {
			l.entries[key] = kept
		}
	}
}
