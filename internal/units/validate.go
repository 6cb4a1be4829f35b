package units

import "fmt"

// Validation error codes (E200-E299)
const (
	ErrDuplicateSymbol = "E201" // symbol appears twice in a category
	ErrEmptyCategory   = "E202" // category has no units
	ErrMissingBaseUnit = "E203" // no unit with factor 1 and offset 0
)

// ValidationError represents a table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateTable checks the rules CUE cannot express.
// Returns all errors found (does not fail-fast).
func ValidateTable(t *Table) []ValidationError {
	var errs []ValidationError

	for _, c := range t.categories {
		field := "category." + c.Name

		// E202: category must have units
		if len(c.Units) == 0 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "category has no units",
				Code:    ErrEmptyCategory,
			})
			continue
		}

		seen := make(map[string]bool)
		hasBase := false
		for i, u := range c.Units {
			// E201: duplicate symbol
			if seen[u.Symbol] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s[%d].symbol", field, i),
					Message: fmt.Sprintf("duplicate symbol: %q", u.Symbol),
					Code:    ErrDuplicateSymbol,
				})
			}
			seen[u.Symbol] = true
			hasBase = hasBase || u.IsBase()
		}

		// E203: a base unit anchors the conversions
		if !hasBase {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "no base unit (factor 1, offset 0)",
				Code:    ErrMissingBaseUnit,
			})
		}
	}
	return errs
}
