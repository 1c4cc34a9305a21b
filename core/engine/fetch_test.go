package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows materializes canned data through the pgx.Rows interface.
type fakeRows struct {
	cols []string
	data [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                       {}
func (r *fakeRows) Err() error                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fields[i] = pgconn.FieldDescription{Name: c, DataTypeOID: 25} // text
	}
	return fields
}
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return nil }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

// instantSource answers queries immediately from canned rows.
type instantSource struct {
	rows        *fakeRows
	queryCalled atomic.Bool
	queryErr    error
}

func (s *instantSource) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.queryCalled.Store(true)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.rows, nil
}

func (s *instantSource) Interrupt(ctx context.Context) error { return nil }

// blockingSource simulates a native call that cannot return until an
// out-of-band interrupt arrives.
type blockingSource struct {
	mu          sync.Mutex
	interrupted chan struct{}
	interrupts  int
}

func newBlockingSource() *blockingSource {
	return &blockingSource{interrupted: make(chan struct{})}
}

func (s *blockingSource) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	<-s.interrupted
	return nil, errors.New("ERROR: canceling statement due to user request (SQLSTATE 57014)")
}

func (s *blockingSource) Interrupt(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupts++
	if s.interrupts == 1 {
		close(s.interrupted)
	}
	return nil
}

func (s *blockingSource) interruptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupts
}

func TestFetch_PreCancelledNeverQueries(t *testing.T) {
	src := &instantSource{rows: &fakeRows{cols: []string{"id"}}}
	cancel := NewCancelFlag()
	cancel.Cancel()

	_, err := Fetch(context.Background(), src, "SELECT 1", cancel, 0)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Fetch() = %v, want ErrCancelled", err)
	}
	if src.queryCalled.Load() {
		t.Fatal("query must never be issued when cancellation precedes the fetch")
	}
}

func TestFetch_Success(t *testing.T) {
	src := &instantSource{rows: &fakeRows{
		cols: []string{"id", "name"},
		data: [][]any{{int32(1), "alice"}, {int32(2), "bob"}},
	}}

	res, err := Fetch(context.Background(), src, "SELECT id, name FROM users", NewCancelFlag(), 0)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(res.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(res.Rows))
	}
	if len(res.Columns) != 2 || res.Columns[0] != "id" || res.Columns[1] != "name" {
		t.Errorf("columns = %v, want [id name]", res.Columns)
	}
	if res.FetchDuration < 0 {
		t.Errorf("fetch duration = %v, want >= 0", res.FetchDuration)
	}
	if res.StartedAt.IsZero() {
		t.Error("fetch start time must be recorded")
	}
}

func TestFetch_CancelInterruptsBlockedQuery(t *testing.T) {
	src := newBlockingSource()
	cancel := NewCancelFlag()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel.Cancel()
	}()

	start := time.Now()
	_, err := Fetch(context.Background(), src, "SELECT pg_sleep(3600)", cancel, 0)

	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Fetch() = %v, want ErrCancelled", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, expected within a few watchdog polls", elapsed)
	}
	if n := src.interruptCount(); n != 1 {
		t.Errorf("interrupt issued %d times, want exactly 1", n)
	}
}

func TestFetch_DeadlineInterruptsBlockedQuery(t *testing.T) {
	src := newBlockingSource()

	_, err := Fetch(context.Background(), src, "SELECT pg_sleep(3600)", NewCancelFlag(), 50*time.Millisecond)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Fetch() = %v, want *TimeoutError", err)
	}
	if te.Phase != PhaseFetch {
		t.Errorf("timeout phase = %q, want %q", te.Phase, PhaseFetch)
	}
}

func TestFetch_CancelWinsOverDeadline(t *testing.T) {
	// Both signals are active by the watchdog's first poll; the
	// user-driven one must be the reported condition.
	src := newBlockingSource()
	cancel := NewCancelFlag()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel.Cancel()
	}()

	_, err := Fetch(context.Background(), src, "SELECT pg_sleep(3600)", cancel, 20*time.Millisecond)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Fetch() = %v, want ErrCancelled to win over the expired deadline", err)
	}
}

func TestFetch_DriverErrorBecomesFetchError(t *testing.T) {
	src := &instantSource{queryErr: errors.New(`relation "missing" does not exist`)}

	_, err := Fetch(context.Background(), src, "SELECT * FROM missing", NewCancelFlag(), 0)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() = %v, want *FetchError", err)
	}
	if fe.Unwrap() == nil {
		t.Error("FetchError must carry the driver diagnostic")
	}
}
