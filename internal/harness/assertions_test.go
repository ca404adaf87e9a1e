package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func traceForAssertions() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{Seq: 0, Op: "start", Count: 1, UpdatedToday: true},
		{Seq: 1, Op: OpClearFlag, Count: 1},
		{Seq: 2, Op: OpActivity, Count: 2, UpdatedToday: true, Effects: []string{"streak_incremented(2)"}},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	result := traceForAssertions()

	EvaluateAssertions(result, []Assertion{
		{Type: AssertFinalCount, Count: 2},
		{Type: AssertTraceCount, Op: OpActivity, Count: 1},
		{Type: AssertTraceCount, Op: OpClearFlag, Count: 1},
		{Type: AssertEffectsContain, Effect: "streak_incremented(2)"},
	})

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name:      "wrong final count",
			assertion: Assertion{Type: AssertFinalCount, Count: 5},
			wantErr:   "expected final count 5, got 2",
		},
		{
			name:      "wrong trace count",
			assertion: Assertion{Type: AssertTraceCount, Op: OpActivity, Count: 3},
			wantErr:   `expected 3 "activity" events, got 1`,
		},
		{
			name:      "missing effect",
			assertion: Assertion{Type: AssertEffectsContain, Effect: "streak_reset"},
			wantErr:   `effect "streak_reset" not found`,
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "final_state"},
			wantErr:   `unknown assertion type "final_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := traceForAssertions()
			EvaluateAssertions(result, []Assertion{tt.assertion})
			assert.False(t, result.Pass)
			if assert.Len(t, result.Errors, 1) {
				assert.Contains(t, result.Errors[0], tt.wantErr)
			}
		})
	}
}

func TestResult_FinalCount_EmptyTrace(t *testing.T) {
	assert.Equal(t, 0, NewResult().FinalCount())
}
