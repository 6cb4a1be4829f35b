package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/history"
)

// lineHistoryFile is the liner history file in the user's home directory.
const lineHistoryFile = ".etk_history"

const replHelp = `Enter an expression to evaluate it. Commands:
  :deg, :rad     switch angle mode
  :mode          show angle mode
  :history       list calculation history
  :recall N      show the N-th most recent calculation
  :clear         clear calculation history
  :help          show this help
  :quit, :q      exit`

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Mode      string
	NoHistory bool
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator",
		Long: `Start an interactive session. Each line is evaluated as an expression;
lines starting with ":" are commands (:help lists them). Line editing and
input history are provided by liner, with the input history kept in
~/.etk_history.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "", "angle mode (deg|rad); default from config")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record results")

	return cmd
}

// replSession holds the state of one interactive session. handle is
// independent of the terminal so it can be driven directly.
type replSession struct {
	mode      calc.AngleMode
	store     *history.Store // nil when history is unavailable
	recording bool
	logger    *slog.Logger
}

func (s *replSession) prompt() string {
	return s.mode.Short() + "> "
}

// handle processes one input line and returns the text to print and
// whether the session should end.
func (s *replSession) handle(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, ":") {
		return s.command(ctx, line)
	}

	display := calc.Evaluate(line, s.mode)
	if calc.IsSentinel(display) {
		if _, err := calc.Compute(line, s.mode); err != nil {
			s.logger.Debug("evaluation failed", "expression", line, "error", err)
		}
		return display, false
	}

	if s.recording && s.store != nil {
		if _, err := s.store.Record(ctx, line, display, s.mode); err != nil {
			s.logger.Warn("failed to record history", "error", err)
		}
	}
	return display, false
}

func (s *replSession) command(ctx context.Context, line string) (string, bool) {
	fields := strings.Fields(strings.ToLower(line))
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return "", true
	case ":help":
		return replHelp, false
	case ":deg":
		s.mode = calc.Degree
		return "mode: " + s.mode.String(), false
	case ":rad":
		s.mode = calc.Radian
		return "mode: " + s.mode.String(), false
	case ":mode":
		return "mode: " + s.mode.String(), false
	}

	if s.store == nil {
		return "history unavailable", false
	}

	switch fields[0] {
	case ":history":
		entries, err := s.store.List(ctx)
		if err != nil {
			return "error: " + err.Error(), false
		}
		return HistoryList{Entries: entries}.String(), false

	case ":recall":
		if len(fields) != 2 {
			return "usage: :recall N", false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return "usage: :recall N", false
		}
		entry, err := s.store.Recall(ctx, n)
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Sprintf("no history entry %d", n), false
		}
		if err != nil {
			return "error: " + err.Error(), false
		}
		return formatEntry(n, entry), false

	case ":clear":
		if err := s.store.Clear(ctx); err != nil {
			return "error: " + err.Error(), false
		}
		return "history cleared", false
	}

	return "unknown command. Type :help for commands.", false
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	logger := opts.logger()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	mode, err := opts.resolveMode(opts.Mode)
	if err != nil {
		return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArg, err.Error(), nil)
	}

	session := &replSession{
		mode:      mode,
		recording: !opts.NoHistory && !opts.config().History.Disabled,
		logger:    logger,
	}
	if st, err := opts.openHistory(); err != nil {
		logger.Warn("history unavailable", "error", err)
	} else {
		session.store = st
		defer st.Close()
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, lineHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(out, "etk - type :help for commands, :quit to exit")
	for {
		line, err := ln.Prompt(session.prompt())
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}

		text, quit := session.handle(ctx, line)
		if quit {
			return nil
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
}
