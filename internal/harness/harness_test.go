package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestRun_SessionStartIsTraced(t *testing.T) {
	scenario := &Scenario{
		Name:        "session_start",
		Description: "opening a session on a fresh store starts the streak",
		Vendor:      "harness",
		Start:       harnessStart,
		Steps: []Step{
			{After: Duration(time.Hour), Op: OpActivity},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass)

	require.Len(t, result.Trace, 2)
	start := result.Trace[0]
	assert.Equal(t, 0, start.Seq)
	assert.Equal(t, "start", start.Op)
	assert.Equal(t, "2024-01-01T09:00:00Z", start.At)
	assert.Equal(t, 1, start.Count)
	assert.True(t, start.UpdatedToday)
	assert.Empty(t, start.Effects)
}

func TestRun_ExpectClausesValidate(t *testing.T) {
	scenario := &Scenario{
		Name:        "expects",
		Description: "expect clauses check post-step state",
		Vendor:      "harness",
		Start:       harnessStart,
		Steps: []Step{
			{
				After:  Duration(6 * time.Hour),
				Op:     OpActivity,
				Expect: &ExpectClause{Count: intp(1), UpdatedToday: boolp(true), Effects: []string{}},
			},
			{
				After:  Duration(9 * time.Hour),
				Op:     OpClearFlag,
				Expect: &ExpectClause{Count: intp(1), UpdatedToday: boolp(false)},
			},
			{
				After:  Duration(9 * time.Hour),
				Op:     OpActivity,
				Expect: &ExpectClause{Count: intp(2), Effects: []string{"streak_incremented(2)"}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "a wrong expect clause fails the run",
		Vendor:      "harness",
		Start:       harnessStart,
		Steps: []Step{
			{
				After:  Duration(6 * time.Hour),
				Op:     OpActivity,
				Expect: &ExpectClause{Count: intp(2)},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected count 2, got 1")
}

func TestRun_HoldStepProducesNoEffects(t *testing.T) {
	scenario := &Scenario{
		Name:        "hold",
		Description: "same-cycle repeats neither change state nor emit effects",
		Vendor:      "harness",
		Start:       harnessStart,
		Steps: []Step{
			{After: Duration(time.Hour), Op: OpActivity},
			{After: Duration(time.Hour), Op: OpActivity},
			{After: Duration(time.Hour), Op: OpActivity},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	for _, event := range result.Trace {
		assert.Equal(t, 1, event.Count)
		assert.True(t, event.UpdatedToday)
		assert.Empty(t, event.Effects, "seq %d", event.Seq)
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "determinism",
		Description: "identical scenarios produce identical traces",
		Vendor:      "harness",
		Start:       harnessStart,
		Steps: []Step{
			{After: Duration(15 * time.Hour), Op: OpClearFlag},
			{After: Duration(9 * time.Hour), Op: OpActivity},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_LoadedScenario(t *testing.T) {
	path := writeScenarioFile(t, `
name: loaded
description: a YAML scenario runs end to end
start: 2024-01-01T09:00:00Z
steps:
  - after: 15h
    op: clear_flag
  - after: 9h
    op: activity
    expect:
      count: 2
      effects:
        - streak_incremented(2)
assertions:
  - type: final_count
    count: 2
  - type: trace_count
    op: clear_flag
    count: 1
  - type: effects_contain
    effect: streak_incremented(2)
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
