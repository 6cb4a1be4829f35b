package units

import (
	"math"
	"strconv"
)

// FormatValue renders a converted value rounded to six significant digits
// with trailing zeros dropped.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', 5, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'g', 6, 64)
	}

	abs := math.Abs(rounded)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(rounded, 'e', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
