package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/config"
	"github.com/roach88/etk/internal/history"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // explicit config file
	DBPath     string // history database override

	// Populated by the root command before any subcommand runs. Commands
	// constructed on their own (tests) fall back to defaults.
	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the etk CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "etk",
		Short: "etk - Engineer's ToolKit",
		Long: `A scientific calculator for the terminal: expression evaluation with
degree/radian trigonometry, a keypad state machine, calculation history,
unit conversion and formula suggestions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArg,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig,
					fmt.Sprintf("failed to load config: %v", err), nil)
			}
			opts.Config = cfg
			opts.Logger.Debug("config loaded",
				"mode", cfg.Mode,
				"history_limit", cfg.History.Limit,
				"units_dir", cfg.Units.Dir,
			)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $ETK_CONFIG or <user config dir>/etk/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "history database path (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewCanonCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewUnitsCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewSuggestCommand(opts))
	cmd.AddCommand(NewPressCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// resolveMode returns the --mode flag value, or the configured mode when
// the flag is empty.
func (o *RootOptions) resolveMode(flag string) (calc.AngleMode, error) {
	if flag == "" {
		return o.config().Mode, nil
	}
	return calc.ParseAngleMode(flag)
}

// historyPath returns --db, or the configured history file.
func (o *RootOptions) historyPath() (string, error) {
	if o.DBPath != "" {
		return o.DBPath, nil
	}
	return o.config().HistoryPath()
}

// openHistory opens the history store, creating its directory if needed.
func (o *RootOptions) openHistory() (*history.Store, error) {
	path, err := o.historyPath()
	if err != nil {
		return nil, err
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	return history.Open(path,
		history.WithLimit(o.config().History.Limit),
		history.WithLogger(o.logger()),
	)
}
