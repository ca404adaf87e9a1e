package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watch2give/streakd/internal/streak"
)

// createTestStore opens a fresh SQLite store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadStreak_NotFound(t *testing.T) {
	s := createTestStore(t)

	rec, err := s.LoadStreak(context.Background(), "vendor-1")

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotFound, "absence is a normal return, distinguishable from failure")
}

func TestStore_SaveLoadStreak_Roundtrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)

	want := streak.Record{Count: 3, LastActivity: at, UpdatedToday: true}
	require.NoError(t, s.SaveStreak(ctx, "vendor-1", want))

	got, err := s.LoadStreak(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, want.Count, got.Count)
	assert.Equal(t, want.UpdatedToday, got.UpdatedToday)
	assert.True(t, got.LastActivity.Equal(at))
}

func TestStore_SaveStreak_OverwritesInPlace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveStreak(ctx, "vendor-1", streak.Record{Count: 1, LastActivity: at, UpdatedToday: true}))
	require.NoError(t, s.SaveStreak(ctx, "vendor-1", streak.Record{Count: 2, LastActivity: at.Add(21 * time.Hour), UpdatedToday: false}))

	got, err := s.LoadStreak(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.False(t, got.UpdatedToday)
}

func TestStore_LoadStreak_KeysAreIndependent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveStreak(ctx, "vendor-1", streak.Record{Count: 4, LastActivity: at, UpdatedToday: true}))

	_, err := s.LoadStreak(ctx, "vendor-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadStreak_MalformedTimestamp(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (vendor_key, count, last_activity, updated_today, schema_version)
		VALUES ('vendor-1', 3, 'not-a-timestamp', 1, 1)
	`)
	require.NoError(t, err)

	rec, err := s.LoadStreak(ctx, "vendor-1")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestStore_LoadStreak_CountOutOfRange(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (vendor_key, count, last_activity, updated_today, schema_version)
		VALUES ('vendor-1', 9, '2024-01-01T09:00:00Z', 1, 1)
	`)
	require.NoError(t, err)

	_, err = s.LoadStreak(ctx, "vendor-1")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestStore_LoadStreak_UnknownSchemaVersion(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (vendor_key, count, last_activity, updated_today, schema_version)
		VALUES ('vendor-1', 3, '2024-01-01T09:00:00Z', 1, 99)
	`)
	require.NoError(t, err)

	_, err = s.LoadStreak(ctx, "vendor-1")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestStore_Open_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveStreak(context.Background(), "vendor-1",
		streak.Record{Count: 2, LastActivity: time.Now(), UpdatedToday: true}))
	require.NoError(t, s1.Close())

	// Reopen and read back - schema application must not clobber data.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.LoadStreak(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}
