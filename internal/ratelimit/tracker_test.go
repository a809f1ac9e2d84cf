package ratelimit

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewTrackerWithClock(zerolog.Nop(), clock), clock
}

func TestTrackerCooldownRespected(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Block("POST /export/bulk", 60*time.Second)

	assert.True(t, tracker.IsBlocked("POST /export/bulk"))
	assert.False(t, tracker.IsBlocked("GET /prompts"))

	clock.Advance(59 * time.Second)
	assert.True(t, tracker.IsBlocked("POST /export/bulk"))

	clock.Advance(2 * time.Second)
	assert.False(t, tracker.IsBlocked("POST /export/bulk"))
}

func TestTrackerBlockOverwritesExistingCooldown(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Block("GET /prompts", 10*time.Second)
	tracker.Block("GET /prompts", 60*time.Second)

	clock.Advance(30 * time.Second)
	assert.True(t, tracker.IsBlocked("GET /prompts"))
}

func TestTrackerRemaining(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Block("GET /prompts", time.Minute)
	assert.Equal(t, time.Minute, tracker.Remaining("GET /prompts"))

	clock.Advance(40 * time.Second)
	assert.Equal(t, 20*time.Second, tracker.Remaining("GET /prompts"))

	assert.Zero(t, tracker.Remaining("DELETE /prompts/{id}"))
}

func TestTrackerListBlockedEvictsStaleEntries(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Block("GET /prompts", 10*time.Second)
	tracker.Block("POST /export/bulk", 120*time.Second)

	assert.Equal(t, []string{"GET /prompts", "POST /export/bulk"}, tracker.ListBlocked())

	clock.Advance(30 * time.Second)
	assert.Equal(t, []string{"POST /export/bulk"}, tracker.ListBlocked())

	// The stale entry is gone, not just filtered from the snapshot.
	tracker.mu.Lock()
	_, exists := tracker.entries["GET /prompts"]
	tracker.mu.Unlock()
	assert.False(t, exists)
}

func TestTrackerClear(t *testing.T) {
	tracker, _ := newTestTracker()

	tracker.Block("GET /prompts", time.Minute)
	tracker.Block("GET /providers", time.Minute)

	tracker.Clear()

	assert.Empty(t, tracker.ListBlocked())
	assert.False(t, tracker.IsBlocked("GET /prompts"))
}

func TestTrackerBlockedUntil(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Block("GET /prompts", time.Minute)

	until, ok := tracker.BlockedUntil("GET /prompts")
	assert.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Minute), until)

	_, ok = tracker.BlockedUntil("GET /unknown")
	assert.False(t, ok)
}
