package engine

import (
	"errors"
	"fmt"
	"time"
)

// ErrCancelled is the condition reported when the operator aborts a job
// through its CancelFlag. It is deliberately a sentinel: cancellation
// carries no diagnostic payload beyond the fact itself.
var ErrCancelled = errors.New("export cancelled by user")

// TimeoutError reports that a phase exceeded its wall-clock budget.
type TimeoutError struct {
	Phase  Phase
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s phase timed out after %s", e.Phase, e.Budget)
}

// FetchError wraps a native query or connectivity failure that is not
// attributable to cancellation or a deadline.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError wraps an I/O failure while producing the destination.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing output failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TemplateError reports a template that is unreadable as a spreadsheet or
// is missing the requested sheet. Only the template strategy raises it.
type TemplateError struct {
	Reason string
	Err    error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("template error: %s", e.Reason)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// IsCancelled reports whether err is the operator-cancellation condition.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsTimeout reports whether err is a deadline condition, optionally
// returning the phase that expired.
func IsTimeout(err error) (Phase, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te.Phase, true
	}
	return "", false
}
