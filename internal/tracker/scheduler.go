package tracker

import (
	"context"
	"log/slog"
	"time"
)

// timerFunc arms a one-shot timer. Returns the fire channel and a stop
// function. Production uses time.NewTimer; tests inject an immediate or
// manual fire.
type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

func realTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Scheduler clears the tracker's daily flag once per local calendar day.
//
// It is a self-perpetuating one-shot: each firing computes the instant of
// the following local midnight and arms a fresh timer, which stays correct
// across daylight-saving shifts where a fixed 24h interval would drift.
// If the host was suspended past the scheduled instant, the remaining
// duration is already negative on wake and the timer fires immediately
// (catch-up) instead of never firing.
//
// Run exits when ctx is cancelled, so no dangling timer outlives the
// owning session.
type Scheduler struct {
	tracker  *Tracker
	clock    Clock
	loc      *time.Location
	logger   *slog.Logger
	newTimer timerFunc
}

// NewScheduler creates a midnight scheduler for t, using t's clock and
// timezone.
func NewScheduler(t *Tracker) *Scheduler {
	return &Scheduler{
		tracker:  t,
		clock:    t.clock,
		loc:      t.loc,
		logger:   t.logger.With("component", "scheduler"),
		newTimer: realTimer,
	}
}

// Run blocks, clearing the daily flag at each local midnight, until ctx is
// cancelled. Returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.clock.Now().In(s.loc)
		next := nextMidnight(now)
		wait := next.Sub(now)
		if wait < 0 {
			wait = 0
		}
		s.logger.Debug("armed daily reset", "fire_at", next, "in", wait)

		ch, stop := s.newTimer(wait)
		select {
		case <-ctx.Done():
			stop()
			return ctx.Err()
		case <-ch:
			s.tracker.ClearDailyFlag(ctx)
		}
	}
}

// nextMidnight returns the first instant of the calendar day after now,
// in now's location. time.Date normalizes across DST transitions.
func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
