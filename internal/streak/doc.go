// Package streak implements the activity-streak state machine for the
// vendor dashboard.
//
// The streak is a bounded counter (1-5) advanced by timestamped activity
// events. All state lives in a single Record; the transition rules are a
// pure function of (previous record, now):
//
//   - more than ResetAfter since the last activity: the streak lapsed,
//     reset to 1
//   - at least IncrementAfter since the last activity and the daily flag
//     is clear: a new activity cycle, count goes up by exactly 1 (capped
//     at MaxCount)
//   - otherwise: hold, nothing changes and nothing is written
//
// The window between IncrementAfter and ResetAfter is the grace period: a
// vendor active a few hours later than exactly 24h after the previous
// activity still keeps the streak climbing.
//
// Transition never reads the wall clock itself. Callers thread now in
// explicitly, which is what makes the boundary cases directly testable.
package streak
