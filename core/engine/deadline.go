package engine

import "time"

// Phase names a stage of the job lifecycle, used to tag timeout errors so
// the caller can tell a slow query apart from a slow write.
type Phase string

const (
	PhaseFetch  Phase = "fetch"
	PhaseExport Phase = "export"
)

// CheckStride is the number of rows processed between two consecutive
// deadline/cancellation checks in streaming loops. At 256 rows the
// worst-case deadline overrun is one stride's worth of row work, which
// stays well under typical budgets of a few seconds while keeping the
// per-row overhead negligible.
const CheckStride = 256

// DeadlineClock converts a caller-supplied timeout budget into an absolute
// expiry instant, computed once at construction and immutable afterwards.
// A zero or negative budget means unbounded: Check never fails.
type DeadlineClock struct {
	phase     Phase
	budget    time.Duration
	startedAt time.Time
	expiresAt time.Time // zero when unbounded
}

// NewDeadlineClock starts a clock for the given phase. The budget is
// consumed from the moment of the call.
func NewDeadlineClock(phase Phase, budget time.Duration) *DeadlineClock {
	c := &DeadlineClock{
		phase:     phase,
		budget:    budget,
		startedAt: time.Now(),
	}
	if budget > 0 {
		c.expiresAt = c.startedAt.Add(budget)
	}
	return c
}

// Check returns a *TimeoutError tagged with the clock's phase once the
// expiry instant has passed. O(1), safe to call from tight row loops.
func (c *DeadlineClock) Check() error {
	if c == nil || c.expiresAt.IsZero() {
		return nil
	}
	if time.Now().After(c.expiresAt) {
		return &TimeoutError{Phase: c.phase, Budget: c.budget}
	}
	return nil
}

// Expired reports whether the deadline has passed without allocating an
// error. Used by the watchdog's polling loop.
func (c *DeadlineClock) Expired() bool {
	if c == nil || c.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.expiresAt)
}

// Phase returns the phase this clock is scoped to.
func (c *DeadlineClock) Phase() Phase {
	return c.phase
}
