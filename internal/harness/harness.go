package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/streak"
	"github.com/watch2give/streakd/internal/testutil"
	"github.com/watch2give/streakd/internal/tracker"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store and a fake clock
// frozen at the scenario's start instant, so runs are reproducible.
//
// Execution flow:
//  1. Create fresh in-memory store, fake clock, tracker
//  2. Open the session (the session-start evaluation is trace event 0)
//  3. Execute steps: advance the clock, perform the operation, snapshot
//     the resulting state, validate the expect clause
//  4. Evaluate assertions against the completed trace
func Run(scenario *Scenario) (*Result, error) {
	st := store.NewMemStore()
	clock := testutil.NewFakeClock(scenario.Start)

	// Suppress logs in tests.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tr := tracker.New(st, clock, scenario.Vendor,
		tracker.WithLogger(logger),
		tracker.WithLocation(time.UTC),
	)

	ctx := context.Background()
	effectCh, _ := tr.Subscribe(ctx)

	result := NewResult()

	tr.Start(ctx)
	event, err := snapshot(ctx, st, scenario.Vendor, 0, scenario.Start, "start", drainEffects(effectCh))
	if err != nil {
		return nil, fmt.Errorf("session start: %w", err)
	}
	result.Trace = append(result.Trace, event)

	for i, step := range scenario.Steps {
		now := clock.Advance(time.Duration(step.After))

		switch step.Op {
		case OpActivity:
			if _, _, err := tr.RecordActivity(ctx, now); err != nil {
				return nil, fmt.Errorf("step %d: record activity: %w", i, err)
			}
		case OpClearFlag:
			tr.ClearDailyFlag(ctx)
		default:
			return nil, fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}

		event, err := snapshot(ctx, st, scenario.Vendor, i+1, now, step.Op, drainEffects(effectCh))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		result.Trace = append(result.Trace, event)

		validateExpect(result, i, step.Expect, event)
	}

	EvaluateAssertions(result, scenario.Assertions)

	return result, nil
}

// snapshot reads the persisted record and builds a trace event from it.
// The tracker writes every changed record through to the store, so the
// persisted state doubles as a check on write-back.
func snapshot(ctx context.Context, st store.StreakStore, vendor string, seq int, at time.Time, op string, effects []string) (TraceEvent, error) {
	event := TraceEvent{
		Seq:     seq,
		At:      at.UTC().Format(time.RFC3339),
		Op:      op,
		Effects: effects,
	}

	rec, err := st.LoadStreak(ctx, vendor)
	switch {
	case err == nil:
		event.Count = rec.Count
		event.UpdatedToday = rec.UpdatedToday
	case errors.Is(err, store.ErrNotFound):
		// No record yet: count reads as 0.
	default:
		return TraceEvent{}, fmt.Errorf("load streak: %w", err)
	}

	return event, nil
}

// drainEffects collects every effect currently buffered on the channel.
// The tracker publishes synchronously before returning from an
// evaluation, so everything a step produced is already buffered here.
func drainEffects(ch <-chan streak.Effect) []string {
	var effects []string
	for {
		select {
		case e := <-ch:
			effects = append(effects, e.String())
		default:
			return effects
		}
	}
}

// validateExpect checks a step's expect clause against the observed event.
func validateExpect(result *Result, step int, expect *ExpectClause, event TraceEvent) {
	if expect == nil {
		return
	}

	if expect.Count != nil && event.Count != *expect.Count {
		result.AddError(fmt.Sprintf("step %d: expected count %d, got %d", step, *expect.Count, event.Count))
	}
	if expect.UpdatedToday != nil && event.UpdatedToday != *expect.UpdatedToday {
		result.AddError(fmt.Sprintf("step %d: expected updated_today=%v, got %v", step, *expect.UpdatedToday, event.UpdatedToday))
	}
	if expect.Effects != nil && !slices.Equal(expect.Effects, event.Effects) {
		result.AddError(fmt.Sprintf("step %d: expected effects %v, got %v", step, expect.Effects, event.Effects))
	}
}
