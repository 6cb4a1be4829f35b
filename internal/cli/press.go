package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/history"
	"github.com/roach88/etk/internal/keypad"
)

// PressOptions holds flags for the press command.
type PressOptions struct {
	*RootOptions
	Mode      string
	NoHistory bool
	Recall    int // start from the n-th most recent history entry
}

// KeyStep pairs a key press with the state it produced.
type KeyStep struct {
	Key   string       `json:"key"`
	State keypad.State `json:"state"`
}

// PressResult is the output of the press command.
type PressResult struct {
	Start keypad.State `json:"start"`
	Steps []KeyStep    `json:"steps"`
	Final keypad.State `json:"final"`
}

func (r PressResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %s", "", r.Start)
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "\n%-14s %s", s.Key, s.State)
	}
	return b.String()
}

// NewPressCommand creates the press command.
func NewPressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "press <key script...>",
		Short: "Drive the calculator keypad",
		Long: `Press keys on the calculator keypad and print the state after each one:
angle mode, display, formula and phase.

Keys are separated by whitespace. Digit runs like "30" press one key per
character. Named keys: + - * / ^ x2 ! = enter ac escape back +/- mode pi
sin cos tan log ln exp sqrt √ ncr npr, and the shortcuts c (ncr) and p (npr).

Exit codes:
  0 - Final state is not an error
  1 - Final state shows "Error" or "Invalid Chars"
  2 - Command error (unknown key, etc.)

Examples:
  etk press 2 + 3 =
  etk press "sin 3 0 ) ="
  etk press --mode rad sin pi / 2 ) =
  etk press --recall 1 + 1 =`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPress(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "angle mode (deg|rad); default from config")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record results")
	cmd.Flags().IntVar(&opts.Recall, "recall", 0, "start from the n-th most recent history entry")

	return cmd
}

func runPress(opts *PressOptions, script string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()
	ctx := cmd.Context()

	mode, err := opts.resolveMode(opts.Mode)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, err.Error(), nil)
	}

	keys, err := keypad.ParseKeys(script)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidKey, err.Error(), nil)
	}

	recording := !opts.NoHistory && !opts.config().History.Disabled

	var st *history.Store
	if recording || opts.Recall > 0 {
		st, err = opts.openHistory()
		if err != nil && opts.Recall > 0 {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
		}
		if err != nil {
			logger.Warn("history unavailable", "error", err)
		} else {
			defer st.Close()
		}
	}

	start := keypad.Initial(mode)
	if opts.Recall > 0 {
		entry, err := st.Recall(ctx, opts.Recall)
		if errors.Is(err, history.ErrNotFound) {
			return formatter.Fail(ExitFailure, ErrCodeHistoryNotFound, fmt.Sprintf("no history entry %d", opts.Recall), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
		}
		start = keypad.Recall(start, entry)
	}

	// A nil *history.Store must not become a non-nil Recorder.
	var rec keypad.Recorder
	if recording && st != nil {
		rec = st
	}
	pad := keypad.New(rec, keypad.WithLogger(logger))

	states, err := pad.Run(ctx, start, keys)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}

	result := PressResult{Start: start, Steps: make([]KeyStep, len(states)), Final: start}
	for i, s := range states {
		result.Steps[i] = KeyStep{Key: keys[i].String(), State: s}
		result.Final = s
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if result.Final.Phase == keypad.Error {
		return NewExitError(ExitFailure, fmt.Sprintf("keypad shows %q", result.Final.Display))
	}
	return nil
}
