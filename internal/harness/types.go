package harness

import "github.com/roach88/etk/internal/history"

// TraceEvent records the outcome of one step.
type TraceEvent struct {
	Step    int    `json:"step"`
	Kind    string `json:"kind"` // "eval" or "keys"
	Input   string `json:"input"`
	Mode    string `json:"mode"`
	Display string `json:"display"`
	Formula string `json:"formula,omitempty"` // keypad formula after a keys step
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// History is the final history, newest first.
	History []history.Entry `json:"history"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		History: []history.Entry{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
