package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/keypad"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is the angle mode used by steps without their own. Defaults to
	// degree.
	Mode calc.AngleMode `yaml:"mode"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final history.
	// Supported types: history_count, history_contains
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is either an expression evaluation or a key script.
type Step struct {
	// Eval is an expression evaluated with calc.Evaluate.
	Eval string `yaml:"eval,omitempty"`

	// Keys is a key script understood by keypad.ParseKeys.
	Keys string `yaml:"keys,omitempty"`

	// Mode overrides the scenario mode for this step.
	Mode *calc.AngleMode `yaml:"mode,omitempty"`

	// Expect is the expected display after the step. If nil, the display
	// is only recorded in the trace.
	Expect *string `yaml:"expect,omitempty"`
}

// Kind returns "eval" or "keys".
func (s Step) Kind() string {
	if s.Keys != "" {
		return StepKeys
	}
	return StepEval
}

// Input returns the expression or key script.
func (s Step) Input() string {
	if s.Keys != "" {
		return s.Keys
	}
	return s.Eval
}

// Step kinds.
const (
	StepEval = "eval"
	StepKeys = "keys"
)

// Assertion validates the final history.
type Assertion struct {
	// Type specifies the assertion type:
	// - "history_count": the store holds exactly Count entries
	// - "history_contains": an entry matches Formula (and Result if set)
	Type string `yaml:"type"`

	// Count is the expected number of entries (used by history_count).
	Count int `yaml:"count,omitempty"`

	// Formula is the recorded formula (used by history_contains).
	Formula string `yaml:"formula,omitempty"`

	// Result is the recorded result (used by history_contains).
	Result string `yaml:"result,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryCount    = "history_count"
	AssertHistoryContains = "history_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Eval == "" && step.Keys == "":
			return fmt.Errorf("steps[%d]: one of eval or keys is required", i)
		case step.Eval != "" && step.Keys != "":
			return fmt.Errorf("steps[%d]: eval and keys are mutually exclusive", i)
		}
		if step.Keys != "" {
			if _, err := keypad.ParseKeys(step.Keys); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
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
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must not be negative", index)
		}
	case AssertHistoryContains:
		if a.Formula == "" {
			return fmt.Errorf("assertions[%d]: formula is required for history_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
