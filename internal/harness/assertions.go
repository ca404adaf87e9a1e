package harness

import (
	"fmt"
	"slices"
)

// EvaluateAssertions checks every assertion against the completed trace
// and records failures on the result.
func EvaluateAssertions(result *Result, assertions []Assertion) {
	for i, a := range assertions {
		switch a.Type {
		case AssertFinalCount:
			if got := result.FinalCount(); got != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: expected final count %d, got %d", i, a.Count, got))
			}
		case AssertTraceCount:
			got := 0
			for _, event := range result.Trace {
				if event.Op == a.Op {
					got++
				}
			}
			if got != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: expected %d %q events, got %d", i, a.Count, a.Op, got))
			}
		case AssertEffectsContain:
			found := false
			for _, event := range result.Trace {
				if slices.Contains(event.Effects, a.Effect) {
					found = true
					break
				}
			}
			if !found {
				result.AddError(fmt.Sprintf("assertions[%d]: effect %q not found in trace", i, a.Effect))
			}
		default:
			result.AddError(fmt.Sprintf("assertions[%d]: unknown assertion type %q", i, a.Type))
		}
	}
}
