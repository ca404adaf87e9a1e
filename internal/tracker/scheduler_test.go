package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/testutil"
)

func TestNextMidnight(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-morning",
			time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"one second before midnight",
			time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly midnight rolls to the next day",
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			"month boundary",
			time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"fixed-offset zone keeps local midnight",
			time.Date(2024, 6, 15, 22, 0, 0, 0, time.FixedZone("UTC+7", 7*3600)),
			time.Date(2024, 6, 16, 0, 0, 0, 0, time.FixedZone("UTC+7", 7*3600)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextMidnight(tt.now)
			assert.True(t, got.Equal(tt.want), "nextMidnight(%v) = %v, want %v", tt.now, got, tt.want)
		})
	}
}

func TestScheduler_FiresAndReschedules(t *testing.T) {
	ms := store.NewMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := testutil.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	tr := newTestTracker(t, ms, clock)
	tr.Start(ctx)

	rec, err := ms.LoadStreak(ctx, "vendor-1")
	require.NoError(t, err)
	require.True(t, rec.UpdatedToday)

	// Inject a timer that fires instantly once, then parks until the
	// test cancels the context.
	fired := 0
	var armedWaits []time.Duration
	sched := NewScheduler(tr)
	sched.newTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
		armedWaits = append(armedWaits, d)
		ch := make(chan time.Time, 1)
		if fired == 0 {
			fired++
			ch <- time.Time{}
		} else {
			cancel()
		}
		return ch, func() bool { return true }
	}

	err = sched.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	rec, err = ms.LoadStreak(context.Background(), "vendor-1")
	require.NoError(t, err)
	assert.False(t, rec.UpdatedToday, "midnight firing must clear the daily flag")
	assert.Equal(t, 1, rec.Count, "firing must not touch the count")

	// First arm: 15h until midnight. Second arm proves rescheduling.
	require.Len(t, armedWaits, 2)
	assert.Equal(t, 15*time.Hour, armedWaits[0])
}

func TestScheduler_CancelStopsPendingTimer(t *testing.T) {
	ms := store.NewMemStore()
	ctx, cancel := context.WithCancel(context.Background())

	clock := testutil.NewFakeClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	tr := newTestTracker(t, ms, clock)
	tr.Start(ctx)

	stopped := false
	sched := NewScheduler(tr)
	sched.newTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
		return make(chan time.Time), func() bool { stopped = true; return true }
	}

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not exit on cancellation")
	}
	assert.True(t, stopped, "pending timer must be stopped on teardown")
}
