package calc

import (
	"math"
	"strconv"
)

const (
	sciUpper = 1e15
	sciLower = 1e-10
)

// Format renders a finite result for display. Magnitudes above 1e15 or
// below 1e-10 (but non-zero) use scientific notation with 5 fraction
// digits; everything else is rounded to 10 places with trailing zeros
// dropped.
func Format(v float64) string {
	abs := math.Abs(v)
	if abs > sciUpper || (abs > 0 && abs < sciLower) {
		return strconv.FormatFloat(v, 'e', 5, 64)
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 10, 64), 64)
	if err != nil || rounded == 0 {
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
