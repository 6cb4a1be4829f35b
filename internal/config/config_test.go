package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/etk/internal/calc"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
mode: rad
history:
  path: /tmp/etk-history.db
  limit: 10
  disabled: true
units:
  dir: ./tables
suggest:
  endpoint: http://localhost:8080/suggest
  model: formula-small
  timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, calc.Radian, cfg.Mode)
	assert.Equal(t, HistoryConfig{Path: "/tmp/etk-history.db", Limit: 10, Disabled: true}, cfg.History)
	assert.Equal(t, "./tables", cfg.Units.Dir)
	assert.Equal(t, SuggestConfig{
		Endpoint: "http://localhost:8080/suggest",
		Model:    "formula-small",
		Timeout:  5 * time.Second,
	}, cfg.Suggest)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "history:\n  disabled: true\n"))
	require.NoError(t, err)

	assert.Equal(t, calc.Degree, cfg.Mode)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.True(t, cfg.History.Disabled)
	assert.Equal(t, 30*time.Second, cfg.Suggest.Timeout)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "modes: deg\n", "field modes not found"},
		{"typo in section", "history:\n  limt: 5\n", "field limt not found"},
		{"bad mode", "mode: gradians\n", "gradians"},
		{"zero limit", "history:\n  limit: 0\n", "history.limit must be positive"},
		{"negative timeout", "suggest:\n  timeout: -1s\n", "suggest.timeout must be positive"},
		{"malformed", "mode: [\n", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvVar(t *testing.T) {
	t.Setenv(EnvConfig, writeConfig(t, "mode: radian\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, calc.Radian, cfg.Mode)
}

func TestLoad_MissingEnvFileIsError(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.History.Path = "/data/h.db"
	path, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/h.db", path)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/test")
	cfg.History.Path = ""
	path, err = cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "history.db", filepath.Base(path))
	assert.Equal(t, "etk", filepath.Base(filepath.Dir(path)))
}
