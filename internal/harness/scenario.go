package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Step operation names.
const (
	OpActivity  = "activity"
	OpClearFlag = "clear_flag"
)

// Scenario defines a deterministic streak session to replay.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Vendor is the vendor key the session runs under.
	// Defaults to "harness".
	Vendor string `yaml:"vendor,omitempty"`

	// Start is the instant the session opens. The session-start
	// evaluation runs at exactly this instant.
	Start time.Time `yaml:"start"`

	// Steps are executed in order. Each step advances the clock by its
	// After offset before performing its operation.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one timed operation within a scenario.
type Step struct {
	// After is the clock advance relative to the previous step (or to
	// Start for the first step). Parsed with time.ParseDuration.
	After Duration `yaml:"after"`

	// Op is the operation to perform: "activity" or "clear_flag".
	Op string `yaml:"op"`

	// Expect optionally validates the state right after the operation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected post-step state.
// Nil fields are not checked.
type ExpectClause struct {
	// Count is the expected streak count.
	Count *int `yaml:"count,omitempty"`

	// UpdatedToday is the expected daily flag.
	UpdatedToday *bool `yaml:"updated_today,omitempty"`

	// Effects are the expected effect strings for this step, in order.
	// An empty non-nil list asserts the step produced no effects.
	Effects []string `yaml:"effects,omitempty"`
}

// Assertion validates the completed trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_count": the count after the last step equals Count
	// - "trace_count": Op appears exactly Count times in the trace
	// - "effects_contain": some trace event published Effect
	Type string `yaml:"type"`

	// Op is the operation name (used by trace_count).
	Op string `yaml:"op,omitempty"`

	// Count is the expected value (used by final_count, trace_count).
	Count int `yaml:"count,omitempty"`

	// Effect is the expected effect string (used by effects_contain).
	Effect string `yaml:"effect,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalCount     = "final_count"
	AssertTraceCount     = "trace_count"
	AssertEffectsContain = "effects_contain"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "20h" or "36h1s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Start.IsZero() {
		return fmt.Errorf("start is required")
	}

	if s.Vendor == "" {
		s.Vendor = "harness"
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op != OpActivity && step.Op != OpClearFlag {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.After < 0 {
			return fmt.Errorf("steps[%d]: after must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertFinalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for final_count", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertEffectsContain:
		if a.Effect == "" {
			return fmt.Errorf("assertions[%d]: effect is required for effects_contain", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
