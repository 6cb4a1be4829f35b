package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv isolates a command run from the user's config and history.
type testEnv struct {
	dir    string
	config string
	db     string
}

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "history.db"),
	}
	require.NoError(t, os.WriteFile(env.config, []byte(configYAML), 0644))
	return env
}

// run executes the root command with args and returns stdout, stderr and
// the command error.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON envelope, decoding Data into data when
// non-nil.
func decodeResponse(t *testing.T, raw string, data any) CLIResponse {
	t.Helper()
	var envelope struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope), raw)
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data), raw)
	}
	return envelope.CLIResponse
}
