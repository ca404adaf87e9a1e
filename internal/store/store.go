package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/watch2give/streakd/internal/streak"
	"github.com/watch2give/streakd/internal/token"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is written alongside every streak row. Rows carrying an
// unknown version are treated as malformed rather than guessed at.
const schemaVersion = 1

// ErrNotFound is returned when no record exists for the requested key.
// First use of a fresh database returns this; it is not a failure.
var ErrNotFound = errors.New("not found")

// ErrMalformedRecord is returned when a stored streak row cannot be
// interpreted: unparsable timestamp, count outside [1,5], or an unknown
// schema version. Callers treat the record as absent.
var ErrMalformedRecord = errors.New("malformed streak record")

// StreakStore is the persistence seam the tracker depends on.
//
// Implementations: Store (SQLite) and MemStore (in-memory fallback).
type StreakStore interface {
	// LoadStreak returns the persisted record for vendorKey, ErrNotFound
	// if none exists, or ErrMalformedRecord if the row is unusable.
	LoadStreak(ctx context.Context, vendorKey string) (*streak.Record, error)

	// SaveStreak overwrites the record for vendorKey atomically.
	SaveStreak(ctx context.Context, vendorKey string, rec streak.Record) error
}

// SubmissionStore persists token-action submissions.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, sub token.Submission) error
	ListSubmissions(ctx context.Context, vendorKey string, limit int) ([]token.Submission, error)
}

// Store is the SQLite-backed implementation of StreakStore and
// SubmissionStore.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies
// pragmas and the schema. Idempotent - safe to call against an existing
// database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}
