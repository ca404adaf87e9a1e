package store

import (
	"context"
	"fmt"
	"time"

	"github.com/watch2give/streakd/internal/token"
)

// SaveSubmission inserts a submission row.
// Uses ON CONFLICT(id) DO NOTHING so a retried submission with the same ID
// is silently ignored.
func (s *Store) SaveSubmission(ctx context.Context, sub token.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, vendor_key, token, action, photo_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sub.ID,
		sub.VendorKey,
		sub.Token,
		string(sub.Action),
		sub.PhotoCount,
		sub.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// ListSubmissions returns the most recent submissions for vendorKey,
// newest first. limit <= 0 applies a default of 20.
func (s *Store) ListSubmissions(ctx context.Context, vendorKey string, limit int) ([]token.Submission, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, vendor_key, token, action, photo_count, created_at
		FROM submissions
		WHERE vendor_key = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, vendorKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []token.Submission
	for rows.Next() {
		var (
			sub       token.Submission
			action    string
			createdAt string
		)
		if err := rows.Scan(&sub.ID, &sub.VendorKey, &sub.Token, &action, &sub.PhotoCount, &createdAt); err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		sub.Action = token.Action(action)
		at, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("list submissions: bad created_at %q: %w", createdAt, err)
		}
		sub.CreatedAt = at
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
