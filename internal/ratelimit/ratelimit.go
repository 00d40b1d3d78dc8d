// Package ratelimit implements the per-client token-bucket Rate Limiter
// (C3). Each client identity gets its own bucket, refilled continuously
// rather than reset on a fixed window.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keys a rate.Limiter per client identity. Unlike the teacher's
// fixed-window RateLimiter, buckets here refill continuously via
// golang.org/x/time/rate, matching the token-bucket semantics in
// spec.md §3's RateBucket (capacity == refill rate, i.e. a 1-second burst).
type Limiter struct {
	mu           sync.Mutex
	buckets      map[string]*rate.Limiter
	maxPerSecond float64
	idleEvict    time.Duration

	lastSeen map[string]time.Time
}

// New creates a Limiter where every client is allotted maxPerSecond
// tokens/second with a burst capacity of maxPerSecond (a 1-second burst,
// per spec.md §3). idleEvict controls how long an untouched client's
// bucket is retained before GC sweeps it, bounding memory growth from a
// churning client population.
func New(maxPerSecond float64, idleEvict time.Duration) *Limiter {
	return &Limiter{
		buckets:      make(map[string]*rate.Limiter),
		lastSeen:     make(map[string]time.Time),
		maxPerSecond: maxPerSecond,
		idleEvict:    idleEvict,
	}
}

// Admit consumes one token from clientID's bucket. It returns false if
// the bucket is empty, per the admit(client_id) -> {ok, rejected}
// contract in spec.md §4.3.
func (l *Limiter) Admit(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	if !ok {
		b = rate.NewLimiter(rate.Limit(l.maxPerSecond), burstFor(l.maxPerSecond))
		l.buckets[clientID] = b
	}
	l.lastSeen[clientID] = time.Now()
	return b.Allow()
}

// EvictIdle drops buckets for clients not seen since before cutoff,
// so a long-running proxy doesn't accumulate one bucket per client
// forever.
func (l *Limiter) EvictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.idleEvict)
	for id, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.buckets, id)
			delete(l.lastSeen, id)
		}
	}
}

// TrackedClients reports how many distinct client buckets are live, for
// diagnostics.
func (l *Limiter) TrackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func burstFor(maxPerSecond float64) int {
	b := int(maxPerSecond)
	if b < 1 {
		b = 1
	}
	return b
}
