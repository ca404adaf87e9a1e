package streak

import "time"

// Transition computes the next record and outbound effects for one
// evaluation at instant now. prev is nil when no record exists yet
// (first-ever activity).
//
// The returned changed flag tells the caller whether the record must be
// written back. The hold branch returns prev unchanged with changed=false:
// a pure read path with no store write and no effects.
//
// Effects are order-preserving: an increment that reaches the cap yields
// [Incremented(5), AchievedMax] in that order.
func Transition(prev *Record, now time.Time) (next Record, effects []Effect, changed bool) {
	if prev == nil {
		// First-ever activity. Starts the streak, no effect.
		return Record{Count: 1, LastActivity: now, UpdatedToday: true}, nil, true
	}

	since := now.Sub(prev.LastActivity)

	switch {
	case since > ResetAfter:
		// Lapsed. Today's activity restarts the streak at 1.
		next = Record{Count: 1, LastActivity: now, UpdatedToday: true}
		return next, []Effect{Reset()}, true

	case since >= IncrementAfter && !prev.UpdatedToday:
		// New activity cycle.
		next = Record{
			Count:        min(prev.Count+1, MaxCount),
			LastActivity: now,
			UpdatedToday: true,
		}
		effects = []Effect{Incremented(next.Count)}
		if next.Count == MaxCount && prev.Count < MaxCount {
			effects = append(effects, AchievedMax())
		}
		return next, effects, true

	default:
		// Hold: within the same cycle or already counted. LastActivity
		// is deliberately not advanced here; only genuine new-cycle or
		// reset transitions move the clock forward.
		return *prev, nil, false
	}
}

// ClearDailyFlag returns rec with UpdatedToday cleared. Count and
// LastActivity are untouched; this is the only mutation the midnight
// scheduler performs.
func ClearDailyFlag(rec Record) Record {
	rec.UpdatedToday = false
	return rec
}
