package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/calc"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Mode      string // "deg" | "rad"; empty uses config
	NoHistory bool   // skip recording
}

// EvalResult is the output of a successful evaluation.
type EvalResult struct {
	Expression string         `json:"expression"`
	Display    string         `json:"display"`
	Mode       calc.AngleMode `json:"mode"`
	EntryID    string         `json:"entry_id,omitempty"`
}

func (r EvalResult) String() string { return r.Display }

// CanonResult is the output of the canon command.
type CanonResult struct {
	Expression string         `json:"expression"`
	Canonical  string         `json:"canonical"`
	Mode       calc.AngleMode `json:"mode"`
}

func (r CanonResult) String() string { return r.Canonical }

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate an expression",
		Long: `Evaluate a calculator expression and print the display string.

Arguments are joined with spaces, so quoting is optional for simple input.
Successful results are recorded in history unless --no-history is set or
history is disabled in the config file.

Exit codes:
  0 - Evaluated to a number
  1 - Evaluated to "Error" or "Invalid Chars"
  2 - Command error (invalid flags, etc.)

Examples:
  etk eval "2+3*4"
  etk eval "sin(30)"
  etk eval --mode rad "sin(π/2)"
  etk eval "5!" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "angle mode (deg|rad); default from config")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record the result")

	return cmd
}

func runEval(opts *EvalOptions, expr string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	mode, err := opts.resolveMode(opts.Mode)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, err.Error(), nil)
	}

	display := calc.Evaluate(expr, mode)
	if calc.IsSentinel(display) {
		return evalFailure(formatter, logger, expr, mode, display)
	}

	result := EvalResult{Expression: expr, Display: display, Mode: mode}
	if !opts.NoHistory && !opts.config().History.Disabled && strings.TrimSpace(expr) != "" {
		result.EntryID = recordEval(cmd.Context(), opts, logger, expr, display, mode)
	}

	formatter.VerboseLog("Evaluated %q in %s mode", expr, mode)
	return formatter.Success(result)
}

// recordEval stores a successful evaluation. History failures are logged,
// never fatal: the result has already been computed.
func recordEval(ctx context.Context, opts *EvalOptions, logger *slog.Logger, expr, display string, mode calc.AngleMode) string {
	st, err := opts.openHistory()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return ""
	}
	defer st.Close()

	entry, err := st.Record(ctx, expr, display, mode)
	if err != nil {
		logger.Warn("failed to record history", "error", err)
		return ""
	}
	return entry.ID
}

// evalFailure reports a sentinel. The typed cause is recomputed for the
// log and the JSON envelope; text output shows only the sentinel.
func evalFailure(formatter *OutputFormatter, logger *slog.Logger, expr string, mode calc.AngleMode, display string) error {
	code, message, pos := string(calc.ErrCodeEvaluation), display, -1

	_, err := calc.Compute(expr, mode)
	var ce *calc.Error
	if errors.As(err, &ce) {
		code, message, pos = string(ce.Code), ce.Message, ce.Pos
	}
	logger.Debug("evaluation failed",
		"expression", expr,
		"code", code,
		"pos", pos,
		"message", message,
	)

	if formatter.Format == "json" {
		return formatter.Fail(ExitFailure, code, display, map[string]any{
			"expression": expr,
			"message":    message,
			"pos":        pos,
		})
	}

	fmt.Fprintln(formatter.Writer, display)
	return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message), nil)
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canon <expression...>",
		Short: "Print the canonical form of an expression",
		Long: `Print the canonical form the evaluator computes: function names mapped
to their math equivalents, factorials as calls, and in degree mode every
trigonometric argument converted to radians.

Examples:
  etk canon "sin(30)+5!"
  etk canon --mode rad "√(16)"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "angle mode (deg|rad); default from config")

	return cmd
}

func runCanon(opts *EvalOptions, expr string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	mode, err := opts.resolveMode(opts.Mode)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, err.Error(), nil)
	}

	canonical, err := calc.CanonicalForm(expr, mode)
	if err != nil {
		var ce *calc.Error
		if errors.As(err, &ce) {
			return formatter.Fail(ExitFailure, string(ce.Code), ce.Message, map[string]any{
				"expression": expr,
				"pos":        ce.Pos,
			})
		}
		return formatter.Fail(ExitFailure, string(calc.ErrCodeEvaluation), err.Error(), nil)
	}

	return formatter.Success(CanonResult{Expression: expr, Canonical: canonical, Mode: mode})
}
