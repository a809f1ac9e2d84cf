// Package ratelimit tracks per-endpoint cooldown windows recorded after
// rate-limited responses, so the transport pipeline can fail fast instead of
// hammering an endpoint that already told us to back off.
package ratelimit

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Clock abstracts time so cooldown expiry can be driven by a fake clock in
// tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Tracker remembers, per endpoint key, a cooldown deadline before which new
// calls should be treated as pre-emptively blocked. It is pure in-memory
// bookkeeping: no I/O, no failure modes.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   Clock
	logger  zerolog.Logger
}

// NewTracker creates a tracker using the system clock.
func NewTracker(logger zerolog.Logger) *Tracker {
	return NewTrackerWithClock(logger, systemClock{})
}

// NewTrackerWithClock creates a tracker with an injected clock.
func NewTrackerWithClock(logger zerolog.Logger, clock Clock) *Tracker {
	return &Tracker{
		entries: make(map[string]time.Time),
		clock:   clock,
		logger:  logger.With().Str("component", "RateLimitTracker").Logger(),
	}
}

// Block records or overwrites a cooldown for the endpoint expiring after the
// given duration.
func (t *Tracker) Block(key string, d time.Duration) {
	until := t.clock.Now().Add(d)

	t.mu.Lock()
	t.entries[key] = until
	t.mu.Unlock()

	t.logger.Warn().
		Str("endpoint", key).
		Dur("cooldown", d).
		Time("until", until).
		Msg("Endpoint placed on rate-limit cooldown")
}

// IsBlocked reports whether the endpoint is inside an active cooldown.
// Expired entries are evicted as a side effect of the check.
func (t *Tracker) IsBlocked(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.entries[key]
	if !ok {
		return false
	}
	if t.clock.Now().After(until) {
		delete(t.entries, key)
		return false
	}
	return true
}

// BlockedUntil returns the cooldown deadline for the endpoint, if one is
// active.
func (t *Tracker) BlockedUntil(key string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.entries[key]
	if !ok {
		return time.Time{}, false
	}
	if t.clock.Now().After(until) {
		delete(t.entries, key)
		return time.Time{}, false
	}
	return until, true
}

// Remaining returns how long the endpoint stays blocked, zero when it is not.
func (t *Tracker) Remaining(key string) time.Duration {
	until, ok := t.BlockedUntil(key)
	if !ok {
		return 0
	}
	if d := until.Sub(t.clock.Now()); d > 0 {
		return d
	}
	return 0
}

// ListBlocked returns a sorted snapshot of endpoints with active cooldowns,
// evicting expired entries along the way.
func (t *Tracker) ListBlocked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	keys := make([]string, 0, len(t.entries))
	for key, until := range t.entries {
		if now.After(until) {
			delete(t.entries, key)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clear drops every cooldown. Used at session boundaries such as logout.
func (t *Tracker) Clear() {
	t.mu.Lock()
	n := len(t.entries)
	t.entries = make(map[string]time.Time)
	t.mu.Unlock()

	if n > 0 {
		t.logger.Debug().Int("dropped", n).Msg("Rate-limit cooldowns cleared")
	}
}
