// Package store is the thin persistence adapter: profile CRUD plus an
// append-only audit log over an embedded SQLite database. It exposes only
// the read/write/log operations the orchestration core needs. Schema
// management beyond the embedded migrations is out of scope.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register the pure-Go "sqlite" driver
)

// Store wraps the SQLite connection. Handles are short-lived per call and
// every statement is individually atomic; no cross-call transactions exist.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path, applies pending
// migrations, and returns a ready Store. ":memory:" opens a private
// in-memory database, useful for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases coherent and sidesteps
	// SQLite writer contention for file databases.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying connection for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Health verifies the store answers a trivial query.
func (s *Store) Health(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}

func dsn(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
