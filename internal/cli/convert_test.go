package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/etk/internal/units"
)

const speedTables = `package tables

category: Speed: [
	{symbol: "m/s", name: "Meter per second", factor: 1},
	{symbol: "km/h", name: "Kilometer per hour", factor: 1000 / 3600},
]
`

func writeTables(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tables.cue"), []byte(src), 0644))
	return dir
}

func TestConvertCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"length", []string{"1", "km", "m", "--category", "Length"}, "1 km = 1000 m\n"},
		{"case-insensitive category", []string{"1", "km", "m", "-c", "length"}, "1 km = 1000 m\n"},
		{"temperature", []string{"100", "°C", "°F", "-c", "Temperature"}, "100 °C = 212 °F\n"},
		{"negative temperature", []string{"-c", "Temperature", "--", "-40", "°C", "°F"}, "-40 °C = -40 °F\n"},
		{"kelvin", []string{"0", "K", "°C", "-c", "Temperature"}, "0 K = -273.15 °C\n"},
		{"expression value", []string{"2*1.5", "hr", "min", "-c", "Time"}, "3 hr = 180 min\n"},
		{"identity", []string{"7", "kg", "kg", "-c", "Mass"}, "7 kg = 7 kg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			out, _, err := env.run(t, append([]string{"convert"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvertCommandJSON(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "--format", "json", "convert", "1", "mi", "km", "-c", "length")
	require.NoError(t, err)

	var result ConversionResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Length", result.Category)
	assert.InDelta(t, 1.60934, result.Result, 1e-9)
	assert.Equal(t, "1.60934", result.Display)
}

func TestConvertCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{"unknown category", []string{"1", "a", "b", "-c", "Speed"}, ErrCodeUnknownCategory, ExitFailure},
		{"unknown unit", []string{"1", "km", "parsec", "-c", "Length"}, ErrCodeUnknownUnit, ExitFailure},
		{"cross-category unit", []string{"1", "km", "kg", "-c", "Length"}, ErrCodeUnknownUnit, ExitFailure},
		{"invalid value", []string{"1/0", "km", "m", "-c", "Length"}, ErrCodeInvalidArg, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			out, _, err := env.run(t, append([]string{"convert"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestConvertCommandRequiresCategory(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := env.run(t, "convert", "1", "km", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestConvertCommandUnitsDir(t *testing.T) {
	dir := writeTables(t, speedTables)

	env := newTestEnv(t, "")
	out, _, err := env.run(t, "convert", "36", "km/h", "m/s", "-c", "Speed", "--units-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "36 km/h = 10 m/s\n", out)

	// The same directory from the config file.
	env = newTestEnv(t, "units:\n  dir: "+dir+"\n")
	out, _, err = env.run(t, "convert", "10", "m/s", "km/h", "-c", "speed")
	require.NoError(t, err)
	assert.Equal(t, "10 m/s = 36 km/h\n", out)
}

func TestConvertCommandInvalidUnitsDir(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := env.run(t, "convert", "1", "a", "b", "-c", "X", "--units-dir", filepath.Join(env.dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+units.ErrCodeNotFound+"]")

	noBase := writeTables(t, "package tables\n\ncategory: X: [{symbol: \"a\", name: \"A\", factor: 2}]\n")
	out, _, err = env.run(t, "convert", "1", "a", "a", "-c", "X", "--units-dir", noBase)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+units.ErrMissingBaseUnit+"]")
}

func TestUnitsCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := env.run(t, "units")
	require.NoError(t, err)
	assert.Contains(t, out, "Length: m, km, cm, mm, mi, yd, ft, in\n")
	assert.Contains(t, out, "Temperature: °C, °F, K\n")
	assert.Contains(t, out, "Time: s, min, hr, d\n")

	out, _, err = env.run(t, "units", "temperature")
	require.NoError(t, err)
	assert.Contains(t, out, "Temperature\n")
	assert.Contains(t, out, "°C")
	assert.Contains(t, out, "(base)")
	assert.Contains(t, out, "offset=-273.15")

	out, _, err = env.run(t, "units", "Speed")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeUnknownCategory+"]")
}

func TestUnitsCommandJSON(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "--format", "json", "units")
	require.NoError(t, err)

	var list CategoryList
	decodeResponse(t, out, &list)
	require.Len(t, list.Categories, 6)
	assert.Equal(t, "Length", list.Categories[0].Name)
}

func TestUnitsValidateCommand(t *testing.T) {
	env := newTestEnv(t, "")

	dir := writeTables(t, speedTables)
	out, _, err := env.run(t, "units", "validate", dir)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+dir+": 1 categories, 2 units\n", out)

	dup := writeTables(t, `package tables

category: X: [
	{symbol: "a", name: "A", factor: 1},
	{symbol: "a", name: "Again", factor: 2},
]
category: Y: []
`)
	out, _, err = env.run(t, "units", "validate", dup)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "["+units.ErrDuplicateSymbol+"]")
	assert.Contains(t, out, "["+units.ErrEmptyCategory+"]")

	zero := writeTables(t, "package tables\n\ncategory: X: [{symbol: \"a\", name: \"A\", factor: 0}]\n")
	_, _, err = env.run(t, "units", "validate", zero)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
