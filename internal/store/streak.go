package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/watch2give/streakd/internal/streak"
)

// LoadStreak returns the persisted streak record for vendorKey.
//
// Absence is reported as ErrNotFound. A row that cannot be interpreted
// (bad timestamp, out-of-range count, unknown schema version) is reported
// as ErrMalformedRecord so the caller can discard it and start fresh.
func (s *Store) LoadStreak(ctx context.Context, vendorKey string) (*streak.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT count, last_activity, updated_today, schema_version
		FROM streaks
		WHERE vendor_key = ?
	`, vendorKey)

	var (
		count        int
		lastActivity string
		updatedToday int
		version      int
	)
	if err := row.Scan(&count, &lastActivity, &updatedToday, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load streak: %w", err)
	}

	if version != schemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", ErrMalformedRecord, version)
	}

	at, err := time.Parse(time.RFC3339Nano, lastActivity)
	if err != nil {
		return nil, fmt.Errorf("%w: bad last_activity %q", ErrMalformedRecord, lastActivity)
	}

	rec := streak.Record{
		Count:        count,
		LastActivity: at,
		UpdatedToday: updatedToday != 0,
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &rec, nil
}

// SaveStreak upserts the streak record for vendorKey. The upsert is a
// single statement, so readers never observe a partial write.
func (s *Store) SaveStreak(ctx context.Context, vendorKey string, rec streak.Record) error {
	updatedToday := 0
	if rec.UpdatedToday {
		updatedToday = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (vendor_key, count, last_activity, updated_today, schema_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(vendor_key) DO UPDATE SET
			count = excluded.count,
			last_activity = excluded.last_activity,
			updated_today = excluded.updated_today,
			schema_version = excluded.schema_version
	`,
		vendorKey,
		rec.Count,
		rec.LastActivity.UTC().Format(time.RFC3339Nano),
		updatedToday,
		schemaVersion,
	)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
