package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of the accounts database.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var (
	// ErrAccountNotFound means the requested key is absent. It is an expected
	// outcome, not a failure.
	ErrAccountNotFound = errors.New("account not found")
	// ErrStorageUnavailable wraps every failure to reach or read the
	// underlying database.
	ErrStorageUnavailable = errors.New("account storage unavailable")
)

// ParseDialect validates a driver name from configuration.
func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(driver); d {
	case SQLite, Postgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q (want %q or %q)", driver, SQLite, Postgres)
	}
}

// Open creates the connection pool for dialect. No connection is made until
// the first operation, so a missing database file surfaces per request as
// ErrStorageUnavailable rather than at startup.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	if dialect == SQLite {
		db.SetMaxOpenConns(4)
	}
	return db, nil
}

// Ping checks that the database is reachable and the accounts table exists.
func Ping(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// withConn runs fn on a single pooled connection and always releases it.
func withConn(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to acquire connection: %w", ErrStorageUnavailable, err)
	}
	defer conn.Close()
	return fn(conn)
}
