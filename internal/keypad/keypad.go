package keypad

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/history"
)

// Recorder receives every successful evaluation. *history.Store
// satisfies it.
type Recorder interface {
	Record(ctx context.Context, formula, result string, mode calc.AngleMode) (history.Entry, error)
}

// operators are the binary operators that can end a formula.
const operators = "+-*/^"

// Keypad applies key presses to states.
type Keypad struct {
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Keypad.
type Option func(*Keypad)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(k *Keypad) { k.logger = l }
}

// New returns a Keypad that records results to rec. rec may be nil.
func New(rec Recorder, opts ...Option) *Keypad {
	k := &Keypad{
		recorder: rec,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Apply returns the state after pressing key in state s. The only error
// source is the Recorder; on error s is returned unchanged.
func (k *Keypad) Apply(ctx context.Context, s State, key Key) (State, error) {
	switch key.Kind {
	case KeyInput:
		return input(s, key.Text), nil
	case KeyOperator:
		return operator(s, key.Text), nil
	case KeyFunction:
		return function(s, key.Text), nil
	case KeyFactorial:
		return factorial(s), nil
	case KeyEquals:
		return k.equals(ctx, s)
	case KeyClear:
		return Initial(s.Mode), nil
	case KeyBackspace:
		return backspace(s), nil
	case KeyPlusMinus:
		return plusMinus(s), nil
	case KeyToggleMode:
		s.Mode = s.Mode.Toggle()
		return s, nil
	default:
		return s, fmt.Errorf("apply %s: %w", key, ErrUnknownKey)
	}
}

// Run applies keys in order and returns the state after each press.
func (k *Keypad) Run(ctx context.Context, s State, keys []Key) ([]State, error) {
	states := make([]State, 0, len(keys))
	for i, key := range keys {
		next, err := k.Apply(ctx, s, key)
		if err != nil {
			return states, fmt.Errorf("key %d (%s): %w", i+1, key, err)
		}
		s = next
		states = append(states, s)
	}
	return states, nil
}

// Recall loads a history entry as if it had just been computed.
func Recall(s State, e history.Entry) State {
	return State{
		Display: e.Result,
		Formula: e.Formula,
		Phase:   ShowingResult,
		Mode:    s.Mode,
	}
}

func input(s State, in string) State {
	switch s.Phase {
	case Error:
		return Initial(s.Mode)
	case ShowingResult:
		return State{Display: in, Formula: in, Phase: EnteringOperand, Mode: s.Mode}
	}

	switch {
	case s.Display == "0" && in != ".":
		s.Display = in
	case in == "," || in == "(":
	default:
		s.Display += in
	}
	s.Formula += in
	s.Phase = EnteringOperand
	return s
}

func operator(s State, op string) State {
	if s.Phase == Error {
		return s
	}
	s.Formula += op
	s.Display = "0"
	s.Phase = EnteringOperator
	return s
}

func function(s State, name string) State {
	if s.Phase == Error {
		return s
	}
	s.Formula += name + "("
	s.Display = "0"
	s.Phase = EnteringOperand
	return s
}

func factorial(s State) State {
	if s.Phase == Error {
		return s
	}
	s.Formula += "!"
	s.Phase = EnteringOperand
	return s
}

func (k *Keypad) equals(ctx context.Context, s State) (State, error) {
	if s.Phase == Error || s.Formula == "" {
		return s, nil
	}

	result := calc.Evaluate(s.Formula, s.Mode)
	if calc.IsSentinel(result) {
		k.logger.Debug("keypad evaluation failed", "formula", s.Formula, "display", result)
		s.Display = result
		s.Phase = Error
		return s, nil
	}

	if k.recorder != nil {
		if _, err := k.recorder.Record(ctx, s.Formula, result, s.Mode); err != nil {
			return s, fmt.Errorf("record %q: %w", s.Formula, err)
		}
	}

	return State{Display: result, Formula: result, Phase: ShowingResult, Mode: s.Mode}, nil
}

func backspace(s State) State {
	switch {
	case s.Phase == Error || s.Phase == ShowingResult:
		return Initial(s.Mode)
	case s.Formula == "":
		return s
	}

	last, size := utf8.DecodeLastRuneInString(s.Formula)
	s.Formula = s.Formula[:len(s.Formula)-size]

	if strings.ContainsRune(operators, last) {
		s.Display = trailingOperand(s.Formula)
	} else {
		_, dsize := utf8.DecodeLastRuneInString(s.Display)
		s.Display = s.Display[:len(s.Display)-dsize]
		if s.Display == "" {
			s.Display = "0"
		}
	}

	s.Phase = EnteringOperand
	if r, _ := utf8.DecodeLastRuneInString(s.Formula); s.Formula != "" && strings.ContainsRune(operators, r) {
		s.Phase = EnteringOperator
	}
	return s
}

// trailingOperand returns the text after the last operator in formula,
// or "0" when there is none.
func trailingOperand(formula string) string {
	operand := formula[strings.LastIndexAny(formula, operators)+1:]
	if operand == "" {
		return "0"
	}
	return operand
}

func plusMinus(s State) State {
	if s.Phase == Error || s.Display == "0" {
		return s
	}
	v, err := strconv.ParseFloat(s.Display, 64)
	if err != nil || v == 0 {
		return s
	}

	negated := calc.Format(-v)
	if strings.HasSuffix(s.Formula, s.Display) {
		s.Formula = strings.TrimSuffix(s.Formula, s.Display)
	}
	s.Formula += "(" + negated + ")"
	s.Display = negated
	return s
}
