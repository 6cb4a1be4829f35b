package calc

import "math"

// Compute validates, parses, canonicalizes and evaluates expression,
// returning a finite value or a typed *Error.
func Compute(expression string, mode AngleMode) (float64, error) {
	if err := Validate(expression); err != nil {
		return 0, err
	}

	tree, err := Parse(expression)
	if err != nil {
		return 0, err
	}

	v := Eval(Canonicalize(tree, mode))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{
			Code:    ErrCodeEvaluation,
			Message: "result is not a finite number",
			Pos:     -1,
		}
	}
	return v, nil
}

// Evaluate is the display boundary: it returns the formatted result, "0"
// for an empty expression, or one of the sentinels DisplayInvalidChars and
// DisplayError. It never panics.
func Evaluate(expression string, mode AngleMode) (display string) {
	if expression == "" {
		return "0"
	}

	defer func() {
		if r := recover(); r != nil {
			display = DisplayError
		}
	}()

	v, err := Compute(expression, mode)
	if err != nil {
		return Display(err)
	}
	return Format(v)
}
