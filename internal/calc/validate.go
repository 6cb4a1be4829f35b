package calc

import (
	"fmt"
	"unicode"
)

// allowedRunes is the fixed whitelist. Letters come from the function names
// users type, plus the lone constant e.
var allowedRunes = buildAllowedRunes()

func buildAllowedRunes() map[rune]bool {
	allowed := make(map[rune]bool)
	for _, r := range "0123456789+-*/^().,!π" {
		allowed[r] = true
	}
	allowed['e'] = true
	for name := range surfaceFuncs {
		for _, r := range name {
			allowed[r] = true
		}
	}
	return allowed
}

// Validate rejects any character outside the accepted set.
// It runs before any rewriting and has no side effects.
func Validate(expr string) error {
	for i, r := range expr {
		if allowedRunes[r] || unicode.IsSpace(r) {
			continue
		}
		return &Error{
			Code:    ErrCodeInvalidCharacters,
			Message: fmt.Sprintf("character %q is not allowed", r),
			Pos:     i,
		}
	}
	return nil
}
