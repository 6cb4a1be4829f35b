package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/suggest"
)

// SuggestOptions holds flags for the suggest command.
type SuggestOptions struct {
	*RootOptions
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// SuggestionResult is the output of the suggest command.
type SuggestionResult struct {
	Numbers  []float64 `json:"numbers"`
	Formulas []string  `json:"formulas"`
}

func (r SuggestionResult) String() string {
	var b strings.Builder
	for i, f := range r.Formulas {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, f)
	}
	return b.String()
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuggestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suggest <numbers...>",
		Short: "Suggest engineering formulas for a list of numbers",
		Long: `Ask the configured suggestion endpoint which engineering formulas could
use the given numbers. Numbers may be separated by spaces or commas;
tokens that are not numbers are ignored.

The endpoint, model and timeout come from the config file's suggest
section unless overridden by flags.

Examples:
  etk suggest 9.81 2.5 10
  etk suggest "3, 4, 5" --endpoint http://localhost:8080/suggest`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "suggestion endpoint URL")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model name sent with the request")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "request timeout (default from config)")

	return cmd
}

func runSuggest(opts *SuggestOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.config().Suggest

	numbers, err := suggest.ParseNumbers(input)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSuggestInput, err.Error(), nil)
	}

	endpoint := firstNonEmpty(opts.Endpoint, cfg.Endpoint)
	model := firstNonEmpty(opts.Model, cfg.Model)
	timeout := cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	client := suggest.NewClient(endpoint,
		suggest.WithModel(model),
		suggest.WithTimeout(timeout),
		suggest.WithLogger(opts.logger()),
	)
	formatter.VerboseLog("Requesting suggestions for %d number(s) from %s", len(numbers), endpoint)

	formulas, err := client.Suggest(cmd.Context(), numbers)
	if err != nil {
		return suggestFailure(formatter, err)
	}
	return formatter.Success(SuggestionResult{Numbers: numbers, Formulas: formulas})
}

func suggestFailure(formatter *OutputFormatter, err error) error {
	var statusErr *suggest.StatusError
	switch {
	case errors.Is(err, suggest.ErrNotConfigured):
		return formatter.Fail(ExitCommandError, ErrCodeSuggestConfig,
			"no suggest endpoint: set suggest.endpoint in the config file or pass --endpoint", nil)
	case errors.Is(err, suggest.ErrInvalidInput):
		return formatter.Fail(ExitCommandError, ErrCodeSuggestInput, err.Error(), nil)
	case errors.Is(err, suggest.ErrNoSuggestions):
		return formatter.Fail(ExitFailure, ErrCodeNoSuggestions, err.Error(), nil)
	case errors.As(err, &statusErr):
		return formatter.Fail(ExitCommandError, ErrCodeSuggestFailed, err.Error(), map[string]int{
			"status": statusErr.StatusCode,
		})
	default:
		return formatter.Fail(ExitCommandError, ErrCodeSuggestFailed, err.Error(), nil)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
