package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/history"
)

// HistoryList is the output of "history list".
type HistoryList struct {
	Entries []history.Entry `json:"entries"`
	Limit   int             `json:"limit"`
}

func (l HistoryList) String() string {
	if len(l.Entries) == 0 {
		return "No history."
	}
	var b strings.Builder
	for i, e := range l.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatEntry(i+1, e))
	}
	return b.String()
}

// RecalledEntry is the output of "history recall".
type RecalledEntry struct {
	N     int           `json:"n"`
	Entry history.Entry `json:"entry"`
}

func (r RecalledEntry) String() string { return formatEntry(r.N, r.Entry) }

// HistoryCleared is the output of "history clear".
type HistoryCleared struct {
	Removed int `json:"removed"`
}

func (c HistoryCleared) String() string {
	return fmt.Sprintf("Cleared %d entr%s.", c.Removed, plural(c.Removed, "y", "ies"))
}

func formatEntry(n int, e history.Entry) string {
	return fmt.Sprintf("%3d  [%s] %s = %s", n, e.Mode.Short(), e.Formula, e.Result)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, recall or clear calculation history",
		Long: `Manage the calculation history. Only successful evaluations are
recorded; the newest entries are kept up to the configured limit.

Examples:
  etk history list
  etk history recall 1
  etk history clear`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List entries, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "recall <n>",
		Short:         "Show the n-th most recent entry",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryRecall(rootOpts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Delete every entry",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(rootOpts, cmd)
		},
	})

	return cmd
}

func runHistoryList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openHistory()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	defer st.Close()

	entries, err := st.List(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	return formatter.Success(HistoryList{Entries: entries, Limit: st.Limit()})
}

func runHistoryRecall(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("invalid entry number %q: must be a positive integer", arg), nil)
	}

	st, err := opts.openHistory()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	defer st.Close()

	entry, err := st.Recall(cmd.Context(), n)
	if errors.Is(err, history.ErrNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeHistoryNotFound, fmt.Sprintf("no history entry %d", n), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	return formatter.Success(RecalledEntry{N: n, Entry: entry})
}

func runHistoryClear(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openHistory()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	defer st.Close()

	n, err := st.Count(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	if err := st.Clear(cmd.Context()); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, err.Error(), nil)
	}
	opts.logger().Info("history cleared", "removed", n)
	return formatter.Success(HistoryCleared{Removed: n})
}
