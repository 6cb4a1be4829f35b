package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/calc"
	"github.com/roach88/etk/internal/units"
)

// UnitsOptions holds flags shared by convert and units.
type UnitsOptions struct {
	*RootOptions
	Category string // convert only
	UnitsDir string // CUE tables directory; empty uses config, then built-in
}

// ConversionResult is the output of the convert command.
type ConversionResult struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Result   float64 `json:"result"`
	Display  string  `json:"display"`
}

func (r ConversionResult) String() string {
	return fmt.Sprintf("%s %s = %s %s", units.FormatValue(r.Value), r.From, r.Display, r.To)
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnitsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between units",
		Long: `Convert a value between two units of the same category.

The value is itself an expression, so "convert 2*1.5 km m" works.
Conversions go through the category's base unit; temperatures use each
unit's offset.

Examples:
  etk convert 1 km m --category Length
  etk convert 100 °C °F --category temperature
  etk convert 1 hr s --category Time --format json`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "unit category (required)")
	cmd.Flags().StringVar(&opts.UnitsDir, "units-dir", "", "directory of CUE unit tables")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runConvert(opts *UnitsOptions, valueExpr, from, to string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	table, err := opts.table()
	if err != nil {
		return tableFailure(formatter, err)
	}

	// Quantities are plain expressions; the mode only matters for trig.
	value, err := calc.Compute(valueExpr, calc.Degree)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("invalid value %q: %s", valueExpr, calc.Display(err)), map[string]any{"cause": err.Error()})
	}

	result, err := table.Convert(value, from, to, opts.Category)
	switch {
	case errors.Is(err, units.ErrUnknownCategory):
		return formatter.Fail(ExitFailure, ErrCodeUnknownCategory, err.Error(), categoryNames(table))
	case errors.Is(err, units.ErrUnknownUnit):
		return formatter.Fail(ExitFailure, ErrCodeUnknownUnit, err.Error(), nil)
	case err != nil:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	// Report the canonical category name even when matched case-insensitively.
	category, _ := table.Category(opts.Category)
	formatter.VerboseLog("Converted through base unit of %s", category.Name)

	return formatter.Success(ConversionResult{
		Category: category.Name,
		Value:    value,
		From:     from,
		To:       to,
		Result:   result,
		Display:  units.FormatValue(result),
	})
}

// table loads --units-dir, the configured directory, or the built-in
// tables. User tables must also pass ValidateTable.
func (o *UnitsOptions) table() (*units.Table, error) {
	dir := o.UnitsDir
	if dir == "" {
		dir = o.config().Units.Dir
	}
	if dir == "" {
		return units.Default()
	}

	o.logger().Debug("loading unit tables", "dir", dir)
	table, err := units.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if errs := units.ValidateTable(table); len(errs) > 0 {
		return nil, tableValidationError(errs)
	}
	return table, nil
}

// tableValidationError carries every ValidateTable finding.
type tableValidationError []units.ValidationError

func (e tableValidationError) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// tableFailure maps unit table loading errors to CLI error codes.
func tableFailure(formatter *OutputFormatter, err error) error {
	var loadErr *units.LoadError
	var compileErr *units.CompileError
	var validationErrs tableValidationError
	switch {
	case errors.As(err, &loadErr):
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	case errors.As(err, &compileErr):
		return formatter.Fail(ExitCommandError, ErrCodeTableInvalid, compileErr.Error(), map[string]string{
			"field": compileErr.Field,
		})
	case errors.As(err, &validationErrs):
		return formatter.Fail(ExitCommandError, validationErrs[0].Code, validationErrs[0].Error(), []units.ValidationError(validationErrs))
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
}

func categoryNames(t *units.Table) []string {
	var names []string
	for _, c := range t.Categories() {
		names = append(names, c.Name)
	}
	return names
}
