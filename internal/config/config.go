// Package config loads etk's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/history"
	"github.com/roach88/etk/internal/suggest"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "ETK_CONFIG"

// Config is the file-level configuration. CLI flags override it.
type Config struct {
	// Mode is the default angle mode for eval, press and repl.
	Mode calc.AngleMode `yaml:"mode"`

	History HistoryConfig `yaml:"history"`
	Units   UnitsConfig   `yaml:"units"`
	Suggest SuggestConfig `yaml:"suggest"`
}

// HistoryConfig configures the calculation history store.
type HistoryConfig struct {
	// Path is the SQLite file. Empty means <user config dir>/etk/history.db.
	Path string `yaml:"path"`

	// Limit is how many entries are kept.
	Limit int `yaml:"limit"`

	// Disabled turns off recording entirely.
	Disabled bool `yaml:"disabled"`
}

// UnitsConfig configures the unit converter.
type UnitsConfig struct {
	// Dir is an optional directory of CUE unit tables replacing the
	// built-in ones.
	Dir string `yaml:"dir"`
}

// SuggestConfig configures the formula suggester.
type SuggestConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode: calc.Degree,
		History: HistoryConfig{
			Limit: history.DefaultLimit,
		},
		Suggest: SuggestConfig{
			Timeout: suggest.DefaultTimeout,
		},
	}
}

// Dir returns <user config dir>/etk.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "etk"), nil
}

// DefaultPath returns <user config dir>/etk/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration at path. An empty path falls back to
// $ETK_CONFIG and then DefaultPath. A missing file at the default location
// yields Default(); a missing explicit file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		}
	}
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default() and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Mode != calc.Degree && c.Mode != calc.Radian {
		return fmt.Errorf("mode: unknown angle mode %d", int(c.Mode))
	}
	if c.History.Limit < 1 {
		return fmt.Errorf("history.limit must be positive, got %d", c.History.Limit)
	}
	if c.Suggest.Timeout <= 0 {
		return fmt.Errorf("suggest.timeout must be positive, got %s", c.Suggest.Timeout)
	}
	return nil
}

// HistoryPath returns the configured history file or the default one.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
