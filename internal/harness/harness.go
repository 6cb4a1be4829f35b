package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/history"
	"github.com/roach88/etk/internal/keypad"
)

// Harness is the test execution engine.
type Harness struct {
	store  *history.Store
	keypad *keypad.Keypad
	state  keypad.State
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory history store with sequential entry IDs
// 2. Execute steps, checking each expect clause
// 3. Evaluate assertions against the final history
// 4. Return result with pass/fail, trace, history and errors
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	st, err := history.Open(":memory:",
		history.WithIDGenerator(history.NewSequenceGenerator("entry")),
		history.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		keypad: keypad.New(st, keypad.WithLogger(logger)),
		state:  keypad.Initial(scenario.Mode),
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step, scenario.Mode, result); err != nil {
			return nil, fmt.Errorf("failed to execute step %d: %w", i+1, err)
		}
	}

	result.History, err = st.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// executeStep runs one step, appends its trace event and checks its
// expect clause.
func (h *Harness) executeStep(ctx context.Context, n int, step Step, mode calc.AngleMode, result *Result) error {
	if step.Mode != nil {
		mode = *step.Mode
	}

	event := TraceEvent{
		Step:  n,
		Kind:  step.Kind(),
		Input: step.Input(),
		Mode:  mode.String(),
	}

	switch step.Kind() {
	case StepEval:
		display, err := h.eval(ctx, step.Eval, mode)
		if err != nil {
			return err
		}
		event.Display = display

	case StepKeys:
		keys, err := keypad.ParseKeys(step.Keys)
		if err != nil {
			return err
		}
		h.state.Mode = mode
		states, err := h.keypad.Run(ctx, h.state, keys)
		if err != nil {
			return err
		}
		if len(states) > 0 {
			h.state = states[len(states)-1]
		}
		event.Display = h.state.Display
		event.Formula = h.state.Formula
	}

	result.AddTrace(event)

	if step.Expect != nil && *step.Expect != event.Display {
		result.AddError(fmt.Sprintf("step %d (%s %q): expected display %q, got %q",
			n, event.Kind, event.Input, *step.Expect, event.Display))
	}

	h.logger.Info("step completed",
		"step", n,
		"kind", event.Kind,
		"display", event.Display,
	)
	return nil
}

// eval evaluates expr and records successful results, like "etk eval".
func (h *Harness) eval(ctx context.Context, expr string, mode calc.AngleMode) (string, error) {
	display := calc.Evaluate(expr, mode)
	if calc.IsSentinel(display) {
		return display, nil
	}
	if _, err := h.store.Record(ctx, expr, display, mode); err != nil {
		return "", err
	}
	return display, nil
}
