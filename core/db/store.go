package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Source is the query connection handle the engine borrows for the fetch
// phase. Interrupt must be safe to call concurrently with a blocked Query:
// it is the out-of-band escape hatch the watchdog uses to force an
// in-flight query to return early.
type Source interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Interrupt(ctx context.Context) error
}

// Store extends Source with connection lifecycle management for callers
// that own the connection. The engine only ever borrows a Source; it never
// opens or closes one.
type Store interface {
	Source
	Connect() error
	Close() error
}
