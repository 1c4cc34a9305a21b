package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fbz-tec/pgxjob/core/db"
	"github.com/fbz-tec/pgxjob/internal/logger"
)

// watchdogInterval is how often the fetch watchdog polls for cancellation
// or deadline expiry while the native query call is blocked.
const watchdogInterval = 100 * time.Millisecond

// interruptTimeout bounds the watchdog's own out-of-band cancel request.
const interruptTimeout = 5 * time.Second

// FetchResult holds the fully materialized result of the fetch phase. It
// is owned by the job and handed to the export strategies by pointer but
// never shared across jobs.
type FetchResult struct {
	Columns       []string
	OIDs          []uint32
	Rows          [][]any
	FetchDuration time.Duration
	StartedAt     time.Time
}

const (
	triggerNone int32 = iota
	triggerCancel
	triggerDeadline
)

// watchdog is the single short-lived helper goroutine that runs
// concurrently with the fetch phase. It polls the cancel flag and the
// fetch clock and, on either condition, fires the source's out-of-band
// interrupt so the blocked query call returns early.
type watchdog struct {
	trigger atomic.Int32
	stop    chan struct{}
	done    chan struct{}
}

func startWatchdog(src db.Source, cancel *CancelFlag, clock *DeadlineClock) *watchdog {
	w := &watchdog{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(watchdogInterval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				// Cancellation wins when both conditions land on the
				// same poll: it is the stronger, user-driven signal.
				switch {
				case cancel.IsCancelled():
					w.trigger.Store(triggerCancel)
				case clock.Expired():
					w.trigger.Store(triggerDeadline)
				default:
					continue
				}

				ctx, release := context.WithTimeout(context.Background(), interruptTimeout)
				if err := src.Interrupt(ctx); err != nil {
					// The interrupt failing must not become the job's
					// reported condition; the blocked call will surface
					// whatever it observes.
					logger.Warn("Watchdog failed to interrupt in-flight query: %v", err)
				}
				release()
				return
			}
		}
	}()

	return w
}

// halt stops the watchdog and joins it, returning whichever trigger fired
// (if any). Must be called exactly once, on every exit path of Fetch, so
// the helper can never outlive the fetch phase and interrupt a later,
// unrelated statement on the same connection.
func (w *watchdog) halt() int32 {
	close(w.stop)
	<-w.done
	return w.trigger.Load()
}

// Fetch executes the query and materializes all rows, remaining
// interruptible even though the underlying call is a single blocking
// operation. A cancellation observed before the call starts prevents the
// query from ever being issued.
func Fetch(ctx context.Context, src db.Source, query string, cancel *CancelFlag, budget time.Duration) (*FetchResult, error) {
	if err := cancel.Err(); err != nil {
		return nil, err
	}

	clock := NewDeadlineClock(PhaseFetch, budget)
	startedAt := time.Now()

	w := startWatchdog(src, cancel, clock)
	res, err := materialize(ctx, src, query, cancel, clock)
	trigger := w.halt()

	if err != nil {
		switch trigger {
		case triggerCancel:
			return nil, ErrCancelled
		case triggerDeadline:
			return nil, &TimeoutError{Phase: PhaseFetch, Budget: budget}
		}
		// Not watchdog-driven: either a synchronous stride check fired,
		// or the driver failed on its own.
		var te *TimeoutError
		if errors.Is(err, ErrCancelled) || errors.As(err, &te) {
			return nil, err
		}
		return nil, &FetchError{Err: err}
	}

	// The query can complete in the same instant the watchdog fires; the
	// budget still governs the phase as a whole.
	if err := clock.Check(); err != nil {
		return nil, err
	}

	res.StartedAt = startedAt
	res.FetchDuration = time.Since(startedAt)

	logger.Debug("Fetch phase complete: %d rows, %d columns in %v",
		len(res.Rows), len(res.Columns), res.FetchDuration.Round(time.Millisecond))

	return res, nil
}

// materialize runs the query and drains all rows into memory, checking
// cancellation and the fetch deadline every CheckStride rows so a stall
// between row batches is also bounded.
func materialize(ctx context.Context, src db.Source, query string, cancel *CancelFlag, clock *DeadlineClock) (*FetchResult, error) {
	rows, err := src.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	oids := make([]uint32, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
		oids[i] = fd.DataTypeOID
	}

	var data [][]any
	count := 0

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		data = append(data, values)

		count++
		if count%CheckStride == 0 {
			if err := cancel.Err(); err != nil {
				return nil, err
			}
			if err := clock.Check(); err != nil {
				return nil, err
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &FetchResult{
		Columns: columns,
		OIDs:    oids,
		Rows:    data,
	}, nil
}
