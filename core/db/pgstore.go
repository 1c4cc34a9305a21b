package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fbz-tec/pgxjob/internal/logger"
	"github.com/jackc/pgx/v5"
)

// PgStore is the PostgreSQL-backed Source used by the CLI.
type PgStore struct {
	dsn  string
	conn *pgx.Conn
}

// NewPgStore creates a new PostgreSQL store instance with the given DSN.
func NewPgStore(dsn string) *PgStore {
	return &PgStore{dsn: dsn}
}

// Connect establishes and pings the connection. No-op when already
// connected.
func (s *PgStore) Connect() error {
	if s.conn != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Debug("Connecting to database host: %s", sanitizeDSN(s.dsn))

	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Debug("Database connection established")
	s.conn = conn
	return nil
}

// Close closes the database connection.
func (s *PgStore) Close() error {
	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.conn.Close(ctx)
	if err != nil {
		logger.Debug("Error closing database connection: %v", err)
	} else {
		logger.Debug("Database connection closed")
	}
	s.conn = nil
	return err
}

// Query executes a SQL query and returns the result rows.
func (s *PgStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("database not connected")
	}

	logger.Debug("Executing SQL query...")

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// Interrupt asks the server to abort the statement currently running on
// this connection. PostgreSQL delivers the request out-of-band, so it
// works while Query is blocked; the blocked call then returns with a
// "canceling statement due to user request" error.
func (s *PgStore) Interrupt(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database not connected")
	}
	logger.Debug("Sending cancel request for in-flight statement")
	return s.conn.PgConn().CancelRequest(ctx)
}

// sanitizeDSN masks the password inside a PostgreSQL DSN before logging.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid-dsn>"
	}

	var userInfo string
	if u.User != nil {
		username := u.User.Username()
		if _, hasPwd := u.User.Password(); hasPwd {
			userInfo = fmt.Sprintf("%s:***@", username)
		} else {
			userInfo = fmt.Sprintf("%s@", username)
		}
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return fmt.Sprintf("%s://%s%s%s", u.Scheme, userInfo, u.Host, path)
}
