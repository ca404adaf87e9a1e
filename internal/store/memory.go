package store

import (
	"context"
	"sync"

	"github.com/watch2give/streakd/internal/streak"
	"github.com/watch2give/streakd/internal/token"
)

// MemStore is an in-memory StreakStore and SubmissionStore. The tracker
// falls back to it for the remainder of a session when the SQLite backing
// medium is unavailable; tests use it directly.
type MemStore struct {
	mu          sync.Mutex
	streaks     map[string]streak.Record
	submissions []token.Submission
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{streaks: make(map[string]streak.Record)}
}

// LoadStreak returns the stored record or ErrNotFound.
func (m *MemStore) LoadStreak(_ context.Context, vendorKey string) (*streak.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.streaks[vendorKey]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// SaveStreak stores the record.
func (m *MemStore) SaveStreak(_ context.Context, vendorKey string, rec streak.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streaks[vendorKey] = rec
	return nil
}

// SaveSubmission appends the submission.
func (m *MemStore) SaveSubmission(_ context.Context, sub token.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, sub)
	return nil
}

// ListSubmissions returns up to limit submissions, newest first.
func (m *MemStore) ListSubmissions(_ context.Context, vendorKey string, limit int) ([]token.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var subs []token.Submission
	for i := len(m.submissions) - 1; i >= 0 && len(subs) < limit; i-- {
		if m.submissions[i].VendorKey == vendorKey {
			subs = append(subs, m.submissions[i])
		}
	}
	return subs, nil
}
