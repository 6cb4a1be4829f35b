package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/etk/internal/history"
)

// AssertionError is returned when an assertion fails.
// It includes the final history to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	History  []history.Entry // Final history for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nHistory:\n")
	for _, entry := range e.History {
		fmt.Fprintf(&buf, "  [%d] %s = %s (%s)\n", entry.Seq, entry.Formula, entry.Result, entry.Mode)
	}

	return buf.String()
}

// assertHistoryCount checks the number of stored entries.
func assertHistoryCount(entries []history.Entry, assertion Assertion) error {
	if len(entries) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryCount,
		Expected: fmt.Sprintf("%d entries", assertion.Count),
		Actual:   fmt.Sprintf("%d entries", len(entries)),
		History:  entries,
	}
}

// assertHistoryContains checks that an entry matches the formula and, if
// given, the result.
func assertHistoryContains(entries []history.Entry, assertion Assertion) error {
	for _, entry := range entries {
		if entry.Formula != assertion.Formula {
			continue
		}
		if assertion.Result == "" || entry.Result == assertion.Result {
			return nil
		}
	}

	expected := fmt.Sprintf("entry %q", assertion.Formula)
	if assertion.Result != "" {
		expected = fmt.Sprintf("entry %q = %q", assertion.Formula, assertion.Result)
	}
	return &AssertionError{
		Type:     AssertHistoryContains,
		Expected: expected,
		Actual:   "not found in history",
		History:  entries,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertHistoryCount:
			err = assertHistoryCount(result.History, assertion)
		case AssertHistoryContains:
			err = assertHistoryContains(result.History, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
