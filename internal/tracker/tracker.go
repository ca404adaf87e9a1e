package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/streak"
)

// Tracker owns one vendor's streak record.
//
// INVARIANTS:
//   - Tracker is the sole writer of the record within the session
//   - evaluations run to completion under the mutex, in delivery order
//   - the in-memory record is authoritative; the store is write-behind
type Tracker struct {
	st     store.StreakStore
	clock  Clock
	vendor string
	loc    *time.Location
	logger *slog.Logger
	bcast  *Broadcaster

	mu       sync.Mutex
	rec      *streak.Record
	degraded bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. Default: slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithLocation sets the timezone for the daily midnight boundary.
// Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// New creates a tracker for vendorKey backed by st. The record is not
// loaded until Start.
func New(st store.StreakStore, clock Clock, vendorKey string, opts ...Option) *Tracker {
	t := &Tracker{
		st:     st,
		clock:  clock,
		vendor: vendorKey,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "tracker", "vendor", vendorKey)
	t.bcast = NewBroadcaster(t.logger)
	return t
}

// Location returns the timezone used for the daily midnight boundary.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Start loads the persisted record and runs the initialization
// transition: opening a session counts as an evaluation, so a streak that
// lapsed while the process was away resets immediately and a pending
// cycle increments. Effects from that transition are published.
//
// Storage failures degrade the session to memory-only; they are not
// errors from the caller's point of view.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.st.LoadStreak(ctx, t.vendor)
	switch {
	case err == nil:
		t.rec = rec
	case errors.Is(err, store.ErrNotFound):
		t.rec = nil
	case errors.Is(err, store.ErrMalformedRecord):
		// Corrupt value at the storage key: discard and start fresh.
		t.logger.Warn("discarding malformed streak record", "error", err)
		t.rec = nil
	default:
		t.logger.Warn("storage unavailable, continuing in memory", "error", err)
		t.degraded = true
		t.rec = nil
	}

	t.evaluate(ctx, t.clock.Now())
}

// RecordActivity processes one activity event at instant now and returns
// the resulting count and effects. Storage trouble never fails the call;
// the error return exists for interface symmetry and is currently always
// nil.
func (t *Tracker) RecordActivity(ctx context.Context, now time.Time) (int, []streak.Effect, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	effects := t.evaluate(ctx, now)
	return t.rec.Count, effects, nil
}

// evaluate runs one transition and handles write-back and effect fan-out.
// Caller must hold the mutex.
func (t *Tracker) evaluate(ctx context.Context, now time.Time) []streak.Effect {
	next, effects, changed := streak.Transition(t.rec, now)
	if changed {
		t.rec = &next
		t.save(ctx)
	}
	for _, e := range effects {
		t.logger.Info("streak effect", "effect", e.String(), "count", next.Count)
		t.bcast.Publish(e)
	}
	return effects
}

// Count returns the current streak count: 0 before any record exists in
// this process, 1..MaxCount otherwise.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rec == nil {
		return 0
	}
	return t.rec.Count
}

// ClearDailyFlag clears the updated-today flag so the next qualifying
// activity event can increment the streak. Count and LastActivity are
// left untouched. No-op when no record exists yet.
//
// This is the midnight scheduler's callback target.
func (t *Tracker) ClearDailyFlag(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rec == nil {
		return
	}
	cleared := streak.ClearDailyFlag(*t.rec)
	t.rec = &cleared
	t.save(ctx)
	t.logger.Debug("daily flag cleared", "count", cleared.Count)
}

// Subscribe registers an effect consumer. The subscription is torn down
// when ctx is cancelled.
func (t *Tracker) Subscribe(ctx context.Context) (<-chan streak.Effect, string) {
	return t.bcast.Subscribe(ctx)
}

// save writes the in-memory record back to the store unless the session
// already degraded to memory-only. A failed save flips the session into
// degraded mode; the in-memory record stays authoritative.
func (t *Tracker) save(ctx context.Context) {
	if t.degraded || t.rec == nil {
		return
	}
	if err := t.st.SaveStreak(ctx, t.vendor, *t.rec); err != nil {
		t.logger.Warn("storage unavailable, continuing in memory", "error", err)
		t.degraded = true
	}
}
