package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/units"
)

// CategoryList is the output of "units" without arguments.
type CategoryList struct {
	Categories []units.Category `json:"categories"`
}

func (l CategoryList) String() string {
	var b strings.Builder
	for i, c := range l.Categories {
		if i > 0 {
			b.WriteByte('\n')
		}
		symbols := make([]string, len(c.Units))
		for j, u := range c.Units {
			symbols[j] = u.Symbol
		}
		fmt.Fprintf(&b, "%s: %s", c.Name, strings.Join(symbols, ", "))
	}
	return b.String()
}

// CategoryDetail is the output of "units <category>".
type CategoryDetail struct {
	units.Category
}

func (d CategoryDetail) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	for _, u := range d.Units {
		fmt.Fprintf(&b, "\n  %-4s %-12s factor=%s", u.Symbol, u.Name, units.FormatValue(u.Factor))
		if u.Offset != 0 {
			fmt.Fprintf(&b, " offset=%s", units.FormatValue(u.Offset))
		}
		if u.IsBase() {
			b.WriteString(" (base)")
		}
	}
	return b.String()
}

// TableValidation is the output of "units validate".
type TableValidation struct {
	Dir        string                  `json:"dir"`
	Categories int                     `json:"categories"`
	Units      int                     `json:"units"`
	Errors     []units.ValidationError `json:"errors,omitempty"`
}

func (v TableValidation) String() string {
	return fmt.Sprintf("✓ %s: %d categories, %d units", v.Dir, v.Categories, v.Units)
}

// NewUnitsCommand creates the units command and its validate subcommand.
func NewUnitsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnitsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "units [category]",
		Short: "List unit categories and units",
		Long: `List the unit categories, or the units of one category with their
conversion factors.

Examples:
  etk units
  etk units temperature
  etk units --units-dir ./tables
  etk units validate ./tables`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			return runUnits(opts, category, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.UnitsDir, "units-dir", "", "directory of CUE unit tables")
	cmd.AddCommand(newUnitsValidateCommand(rootOpts))

	return cmd
}

func runUnits(opts *UnitsOptions, category string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	table, err := opts.table()
	if err != nil {
		return tableFailure(formatter, err)
	}

	if category == "" {
		return formatter.Success(CategoryList{Categories: table.Categories()})
	}

	c, err := table.Category(category)
	if errors.Is(err, units.ErrUnknownCategory) {
		return formatter.Fail(ExitFailure, ErrCodeUnknownCategory, err.Error(), categoryNames(table))
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	return formatter.Success(CategoryDetail{Category: c})
}

func newUnitsValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate a directory of CUE unit tables",
		Long: `Load a directory of CUE unit tables against the unit schema and check
the rules the schema cannot express: unique symbols, non-empty categories
and a base unit per category.

Exit codes:
  0 - Tables valid
  1 - Validation errors found
  2 - Load or schema error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnitsValidate(rootOpts, args[0], cmd)
		},
	}
}

func runUnitsValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	table, err := units.LoadDir(dir)
	if err != nil {
		return tableFailure(formatter, err)
	}

	result := TableValidation{Dir: dir}
	for _, c := range table.Categories() {
		result.Categories++
		result.Units += len(c.Units)
		formatter.VerboseLog("Category %s: %d unit(s)", c.Name, len(c.Units))
	}

	result.Errors = units.ValidateTable(table)
	if len(result.Errors) == 0 {
		return formatter.Success(result)
	}

	if formatter.Format == "json" {
		return formatter.Fail(ExitFailure, result.Errors[0].Code,
			fmt.Sprintf("%d validation error(s)", len(result.Errors)), result.Errors)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "✗ %s\n", e.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
}
