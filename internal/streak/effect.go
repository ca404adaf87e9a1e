package streak

import "fmt"

// EffectKind identifies the outbound notification produced by a transition.
type EffectKind string

const (
	// EffectIncremented fires when the streak advances by one.
	EffectIncremented EffectKind = "streak_incremented"

	// EffectAchievedMax fires exactly once per ascent to MaxCount,
	// never again while the count stays at the cap.
	EffectAchievedMax EffectKind = "streak_achieved_max"

	// EffectReset fires when the streak lapses back to 1.
	EffectReset EffectKind = "streak_reset"
)

// Effect is a notification emitted by a transition. The UI layer consumes
// these: AchievedMax drives the one-time congratulation toast, the others
// drive incidental updates such as animating the flame indicators.
type Effect struct {
	Kind EffectKind

	// Count is the streak count after the transition. Zero for kinds
	// where the count carries no information (AchievedMax implies
	// MaxCount).
	Count int
}

// String renders the effect in the compact form used by traces and logs,
// e.g. "streak_incremented(4)" or "streak_reset".
func (e Effect) String() string {
	if e.Kind == EffectIncremented {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Count)
	}
	return string(e.Kind)
}

// Incremented builds the increment effect for the given new count.
func Incremented(count int) Effect {
	return Effect{Kind: EffectIncremented, Count: count}
}

// AchievedMax builds the cap-reached effect.
func AchievedMax() Effect {
	return Effect{Kind: EffectAchievedMax, Count: MaxCount}
}

// Reset builds the lapse effect.
func Reset() Effect {
	return Effect{Kind: EffectReset, Count: 1}
}
