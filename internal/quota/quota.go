// Package quota implements the per-identity daily consumption cap for the
// image-generation route.
//
// The counter is a process-wide, in-memory table keyed by caller identity
// (X-User-ID header or client IP). Records are created lazily, never evicted,
// and roll over implicitly when the stored UTC day key no longer matches
// today. Quota is intentionally not persisted and not shared across instances;
// a horizontally scaled deployment needs an external store instead.
//
// The check and the charge are separate operations because a failed upstream
// call must not consume quota: handlers call Remaining before contacting the
// provider and Commit only after it succeeds.
package quota

import (
	"sync"
	"time"
)

// dayKeyFormat renders a UTC calendar day, e.g. "2025-06-01".
const dayKeyFormat = "2006-01-02"

// record tracks one identity's consumption for a single UTC day.
type record struct {
	day  string
	used int
}

// Counter is a process-wide daily usage counter. It is safe for concurrent
// use; all map access is serialized by an internal mutex.
//
// Between a Remaining check and the matching Commit the slot is not reserved,
// so concurrent in-flight requests for the same identity may briefly admit
// more than the limit. This matches the documented charge-on-success ordering.
type Counter struct {
	limit int

	mu      sync.Mutex
	records map[string]*record

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time
}

// NewCounter returns a Counter allowing limit uses per identity per UTC day.
// A limit <= 0 is coerced to 1.
func NewCounter(limit int) *Counter {
	if limit <= 0 {
		limit = 1
	}
	return &Counter{
		limit:   limit,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Limit returns the configured daily cap.
func (c *Counter) Limit() int { return c.limit }

// Remaining reports how many uses identity has left today. A previously
// unseen identity, or one whose record belongs to an earlier day, has the
// full limit available (the stale record is replaced with a fresh one).
func (c *Counter) Remaining(identity string) int {
	day := c.now().UTC().Format(dayKeyFormat)

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.fetch(identity, day)
	left := c.limit - rec.used
	if left < 0 {
		return 0
	}
	return left
}

// Commit charges one use against identity for today. Call it only after the
// guarded upstream operation succeeded.
func (c *Counter) Commit(identity string) {
	day := c.now().UTC().Format(dayKeyFormat)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetch(identity, day).used++
}

// Used returns today's consumed count for identity without charging it.
func (c *Counter) Used(identity string) int {
	day := c.now().UTC().Format(dayKeyFormat)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fetch(identity, day).used
}

// fetch returns identity's record for day, creating or resetting it as
// needed. Callers must hold c.mu.
func (c *Counter) fetch(identity, day string) *record {
	if rec, ok := c.records[identity]; ok && rec.day == day {
		return rec
	}
	rec := &record{day: day}
	c.records[identity] = rec
	return rec
}
