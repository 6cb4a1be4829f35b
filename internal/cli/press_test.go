package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pressState mirrors keypad.State's JSON form.
type pressState struct {
	Display string `json:"display"`
	Formula string `json:"formula"`
	Phase   string `json:"phase"`
	Mode    string `json:"mode"`
}

type pressOutput struct {
	Start pressState `json:"start"`
	Steps []struct {
		Key   string     `json:"key"`
		State pressState `json:"state"`
	} `json:"steps"`
	Final pressState `json:"final"`
}

func TestPressCommand(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "press", "2", "+", "3", "=")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[deg] 0 |  (operand)", strings.TrimSpace(lines[0]))
	assert.Equal(t, "input:2        [deg] 2 | 2 (operand)", lines[1])
	assert.Equal(t, "operator:+     [deg] 0 | 2+ (operator)", lines[2])
	assert.Equal(t, "input:3        [deg] 3 | 2+3 (operand)", lines[3])
	assert.Equal(t, "equals         [deg] 5 | 5 (result)", lines[4])
}

func TestPressCommandJSON(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "--format", "json", "press", "--mode", "rad", "cos 0 ) =")
	require.NoError(t, err)

	var result pressOutput
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "radian", result.Start.Mode)
	require.Len(t, result.Steps, 4)
	assert.Equal(t, "function:cos", result.Steps[0].Key)
	assert.Equal(t, "cos(", result.Steps[0].State.Formula)
	assert.Equal(t, pressState{Display: "1", Formula: "1", Phase: "result", Mode: "radian"}, result.Final)
}

func TestPressCommandRecordsHistory(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := env.run(t, "press", "5 ! =")
	require.NoError(t, err)
	_, _, err = env.run(t, "press", "--no-history", "1 + 1 =")
	require.NoError(t, err)

	out, _, err := env.run(t, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "  1  [deg] 5! = 120\n", out)
}

func TestPressCommandRecall(t *testing.T) {
	env := newTestEnv(t, "")
	seedHistory(t, env, "6*7")

	out, _, err := env.run(t, "--format", "json", "press", "--recall", "1", "--no-history", "+ 1 =")
	require.NoError(t, err)

	var result pressOutput
	decodeResponse(t, out, &result)
	assert.Equal(t, "42", result.Start.Display)
	assert.Equal(t, "result", result.Start.Phase)
	assert.Equal(t, "43", result.Final.Display)

	_, _, err = env.run(t, "press", "--recall", "9", "=")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPressCommandErrorState(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "press", "1 / 0 =")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[deg] Error | 1/0 (error)")
}

func TestPressCommandUnknownKey(t *testing.T) {
	env := newTestEnv(t, "")
	out, _, err := env.run(t, "press", "2 + banana")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeInvalidKey+"]")
}
