package keypad

import (
	"fmt"

	"github.com/roach88/etk/internal/calc"
)

// Phase is the keypad's input phase.
type Phase int

const (
	// EnteringOperand is the initial phase and the phase while digits,
	// functions and parentheses are being typed.
	EnteringOperand Phase = iota
	// EnteringOperator follows an operator key; the display shows "0".
	EnteringOperator
	// ShowingResult follows a successful "=". The formula is the result.
	ShowingResult
	// Error follows an evaluation that produced a sentinel.
	Error
)

func (p Phase) String() string {
	switch p {
	case EnteringOperand:
		return "operand"
	case EnteringOperator:
		return "operator"
	case ShowingResult:
		return "result"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is an immutable keypad snapshot.
type State struct {
	Display string         `json:"display"`
	Formula string         `json:"formula"`
	Phase   Phase          `json:"phase"`
	Mode    calc.AngleMode `json:"mode"`
}

// Initial returns the cleared state for the given angle mode.
func Initial(mode calc.AngleMode) State {
	return State{Display: "0", Phase: EnteringOperand, Mode: mode}
}

func (s State) String() string {
	return fmt.Sprintf("[%s] %s | %s (%s)", s.Mode.Short(), s.Display, s.Formula, s.Phase)
}
