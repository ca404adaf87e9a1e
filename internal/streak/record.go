package streak

import (
	"fmt"
	"time"
)

// Streak tuning constants. The thresholds are elapsed-hours, not
// calendar-day identity: two activities 20h apart on the same calendar day
// still count as separate cycles once the daily flag has been cleared.
const (
	// MaxCount is the streak cap. Reaching it emits AchievedMax once.
	MaxCount = 5

	// IncrementAfter is the minimum gap since the last counted activity
	// before the streak may advance again.
	IncrementAfter = 20 * time.Hour

	// ResetAfter is the outer edge of the grace window. Anything beyond
	// it is treated as a lapse and resets the streak to 1.
	ResetAfter = 36 * time.Hour
)

// Record is the single persisted streak state for one vendor.
//
// INVARIANTS:
//   - 1 <= Count <= MaxCount
//   - Count changes only by +1 (increment) or directly to 1 (reset/fresh)
//   - LastActivity only advances on increment, reset, or fresh start;
//     the hold branch never touches it
type Record struct {
	// Count is the current streak length.
	Count int

	// LastActivity is the instant of the most recent transition that
	// changed the record. It is an absolute instant, not a calendar date.
	LastActivity time.Time

	// UpdatedToday means the counter has already been advanced for the
	// current activity cycle. The midnight scheduler clears it so the
	// next qualifying activity is eligible to increment.
	UpdatedToday bool
}

// Validate checks the record invariants. Stored records that fail
// validation are treated as malformed and discarded (fresh start).
func (r Record) Validate() error {
	if r.Count < 1 || r.Count > MaxCount {
		return fmt.Errorf("streak count %d out of range [1,%d]", r.Count, MaxCount)
	}
	if r.LastActivity.IsZero() {
		return fmt.Errorf("streak record has zero last-activity instant")
	}
	return nil
}

// Equal reports whether two records carry the same state.
// LastActivity is compared as an instant.
func (r Record) Equal(other Record) bool {
	return r.Count == other.Count &&
		r.UpdatedToday == other.UpdatedToday &&
		r.LastActivity.Equal(other.LastActivity)
}
