// Package ratelimit provides a fixed-window attempt limiter keyed by caller
// identity (typically the originating address).
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts attempts per key within a fixed window. A window resets
// lazily on the first attempt observed after it has expired; there is no
// background timer. Safe for concurrent use.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	// now is a test seam for time.Now.
	now func() time.Time
}

// New constructs a Limiter allowing limit attempts per window for each key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow records an attempt for key and reports whether it fits the window's
// budget. The attempt counts even if the caller's request later fails for
// other reasons.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}

	e.count++
	return e.count <= l.limit
}
