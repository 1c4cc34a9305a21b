package engine

import "sync/atomic"

// CancelFlag is the single cooperative cancellation signal shared by all
// phases of one export job. It is set once and never cleared: once Cancel
// has been called, every subsequent check anywhere in the job observes the
// flag as set. Safe for concurrent use by the watchdog and the executing
// phase.
type CancelFlag struct {
	set atomic.Bool
}

// NewCancelFlag returns a fresh, unset flag.
func NewCancelFlag() *CancelFlag {
	return &CancelFlag{}
}

// Cancel requests cancellation. Idempotent.
func (c *CancelFlag) Cancel() {
	c.set.Store(true)
}

// IsCancelled reports whether cancellation has been requested.
func (c *CancelFlag) IsCancelled() bool {
	return c != nil && c.set.Load()
}

// Err returns ErrCancelled when the flag is set, nil otherwise.
func (c *CancelFlag) Err() error {
	if c.IsCancelled() {
		return ErrCancelled
	}
	return nil
}
