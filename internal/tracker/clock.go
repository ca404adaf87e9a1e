package tracker

import "time"

// Clock supplies the current wall-clock instant.
//
// Every transition takes now from this seam instead of reading time.Now
// scattered through the logic, which keeps the engine a deterministic
// function of (previous record, now). Production uses WallClock; tests use
// testutil.FakeClock.
type Clock interface {
	Now() time.Time
}

// WallClock reads the system clock.
type WallClock struct{}

// Now returns time.Now().
func (WallClock) Now() time.Time {
	return time.Now()
}
