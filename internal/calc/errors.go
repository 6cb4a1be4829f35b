package calc

import (
	"errors"
	"fmt"
)

// Display sentinels returned by Evaluate in place of a formatted number.
const (
	DisplayInvalidChars = "Invalid Chars"
	DisplayError        = "Error"
)

// ErrorCode categorizes evaluation failures.
type ErrorCode string

const (
	// ErrCodeInvalidCharacters indicates a character outside the accepted set.
	ErrCodeInvalidCharacters ErrorCode = "INVALID_CHARACTERS"

	// ErrCodeEvaluation indicates malformed grammar or a non-finite result.
	ErrCodeEvaluation ErrorCode = "EVALUATION_ERROR"
)

// Error is the typed failure returned by Validate, Parse and Compute.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Pos is the byte offset into the expression, or -1 when the failure
	// is not tied to a position (e.g. a non-finite result).
	Pos int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidCharacters returns true if err is an invalid character error.
// Uses errors.As to handle wrapped errors.
func IsInvalidCharacters(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidCharacters
	}
	return false
}

// IsEvaluationError returns true if err is an evaluation error.
func IsEvaluationError(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeEvaluation
	}
	return false
}

// Display maps an error to the sentinel shown to the user.
// Every error that is not an invalid character error collapses to "Error".
func Display(err error) string {
	if IsInvalidCharacters(err) {
		return DisplayInvalidChars
	}
	return DisplayError
}

// IsSentinel reports whether a display string is one of the error sentinels.
func IsSentinel(display string) bool {
	return display == DisplayInvalidChars || display == DisplayError
}

func newEvalError(pos int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeEvaluation,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}
