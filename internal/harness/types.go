package harness

// TraceEvent is one evaluated operation in a scenario run: the
// session-start evaluation or a step, with the state observed after it.
type TraceEvent struct {
	Seq          int      `json:"seq"`
	At           string   `json:"at"` // RFC3339, UTC
	Op           string   `json:"op"` // "start", "activity" or "clear_flag"
	Count        int      `json:"count"`
	UpdatedToday bool     `json:"updated_today"`
	Effects      []string `json:"effects,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion
	// matched.
	Pass bool `json:"pass"`

	// Trace contains one event per evaluation, in order. Used for trace
	// assertions and golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FinalCount returns the count observed after the last trace event, or 0
// for an empty trace.
func (r *Result) FinalCount() int {
	if len(r.Trace) == 0 {
		return 0
	}
	return r.Trace[len(r.Trace)-1].Count
}
