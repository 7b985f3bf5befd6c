// Package ratelimit implements per-client fixed-window admission control.
// State is process-local by design: losing counters on restart fails open,
// which is acceptable for a soft UX limit.
package ratelimit

import (
	"sync"
	"time"

	"github.com/fanandmerch/tickets-api/internal/clock"
)

// Limiter admits up to max requests per key within a fixed window. The first
// request for a key, or the first after its window lapses, opens a fresh
// window. Calls never block and never do I/O.
type Limiter struct {
	max    int
	window time.Duration
	clock  clock.Clock

	mu      sync.Mutex
	windows map[string]*entry
}

type entry struct {
	count   int
	resetAt time.Time
}

func New(max int, window time.Duration, clk clock.Clock) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		clock:   clk,
		windows: make(map[string]*entry),
	}
}

// Allow records a request for key and reports whether it is admitted. When
// rejected, retryAfter is the time remaining until the window resets.
//
// The map grows with distinct keys seen over the process lifetime; there is
// no eviction. TODO: sweep expired entries on a timer if key cardinality
// ever becomes a memory concern.
func (l *Limiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.windows[key]
	if !ok || now.After(e.resetAt) {
		l.windows[key] = &entry{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	e.count++
	if e.count > l.max {
		return false, e.resetAt.Sub(now)
	}
	return true, 0
}
