package calc

import (
	"fmt"
	"strings"
)

// AngleMode selects how sin, cos and tan interpret their argument.
type AngleMode int

const (
	// Degree converts trig arguments from degrees to radians.
	Degree AngleMode = iota
	// Radian passes trig arguments through unchanged.
	Radian
)

// String returns "degree" or "radian".
func (m AngleMode) String() string {
	switch m {
	case Degree:
		return "degree"
	case Radian:
		return "radian"
	default:
		return fmt.Sprintf("AngleMode(%d)", int(m))
	}
}

// Short returns the keypad label, "deg" or "rad".
func (m AngleMode) Short() string {
	if m == Radian {
		return "rad"
	}
	return "deg"
}

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Degree {
		return Radian
	}
	return Degree
}

// ParseAngleMode accepts deg, degree, rad or radian in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degree, nil
	case "rad", "radian", "radians":
		return Radian, nil
	default:
		return Degree, fmt.Errorf("invalid angle mode %q: must be deg or rad", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config files and
// flags can carry the mode by name.
func (m *AngleMode) UnmarshalText(text []byte) error {
	mode, err := ParseAngleMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
