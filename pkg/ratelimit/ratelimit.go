package ratelimit

import (
	"sync"
	"time"
)

// Decision describes the outcome of a single Allow check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter implements sliding-window rate limiting keyed by
// (operation, caller identity). Second-scale and minute-scale windows are
// tracked independently; a call is allowed only when both have room.
//
// The read-prune-append sequence runs under a single lock so two concurrent
// callers cannot both observe "under limit" and both proceed.
type Limiter struct {
	maxPerSecond int
	maxPerMinute int

	mu      sync.Mutex
	windows map[string][]time.Time

	now func() time.Time
}

// NewLimiter creates a limiter with the given per-second and per-minute
// ceilings. A ceiling of zero disables that window.
func NewLimiter(maxPerSecond, maxPerMinute int) *Limiter {
	return &Limiter{
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		windows:      make(map[string][]time.Time),
		now:          time.Now,
	}
}

// SetClock replaces the limiter's time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Allow records one call for (operation, identity) if both windows have room
// and reports the decision. Timestamps older than the largest window are
// pruned lazily on each access; containers themselves are never destroyed.
func (l *Limiter) Allow(operation, identity string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := operation + "|" + identity

	window := l.windows[key]
	kept := window[:0]
	for _, ts := range window {
		if now.Sub(ts) < time.Minute {
			kept = append(kept, ts)
		}
	}

	inSecond := 0
	for _, ts := range kept {
		if now.Sub(ts) < time.Second {
			inSecond++
		}
	}

	decision := Decision{Allowed: true, Limit: l.maxPerMinute, Remaining: -1}
	if l.maxPerSecond > 0 && inSecond >= l.maxPerSecond {
		decision.Allowed = false
		decision.Limit = l.maxPerSecond
		decision.ResetAt = now.Add(time.Second)
	}
	if decision.Allowed && l.maxPerMinute > 0 && len(kept) >= l.maxPerMinute {
		decision.Allowed = false
		decision.Limit = l.maxPerMinute
		decision.ResetAt = now.Add(time.Minute)
	}

	if decision.Allowed {
		kept = append(kept, now)
	}
	l.windows[key] = kept

	if l.maxPerMinute > 0 {
		decision.Remaining = l.maxPerMinute - len(kept)
		if decision.Remaining < 0 {
			decision.Remaining = 0
		}
	}

	return decision
}
