package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/etk/internal/harness"
)

// Golden transcript outcomes.
const (
	goldenNone     = "none"
	goldenMatch    = "match"
	goldenMismatch = "mismatch"
	goldenUpdated  = "updated"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// StepFailure is a step whose display differed from its expect clause.
type StepFailure struct {
	Step     int    `json:"step"`
	Kind     string `json:"kind"`
	Input    string `json:"input"`
	Mode     string `json:"mode"`
	Expected string `json:"expected"`
	Got      string `json:"got"`
}

func (f StepFailure) String() string {
	return fmt.Sprintf("step %d %s %q (%s): expected %q, got %q",
		f.Step, f.Kind, f.Input, f.Mode, f.Expected, f.Got)
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name     string        `json:"name"`
	File     string        `json:"file"`
	Pass     bool          `json:"pass"`
	Steps    int           `json:"steps"`
	History  int           `json:"history"` // entries left in history after the run
	Golden   string        `json:"golden"`
	Failures []StepFailure `json:"failures,omitempty"`
	Errors   []string      `json:"errors,omitempty"` // load, assertion and golden errors
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run calculator conformance scenarios.

Each YAML scenario evaluates expressions and presses keypad keys against a
fresh in-memory history, checking expected displays and history
assertions. When <scenarios-dir>/golden/<name>.golden exists the
transcript must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  etk test ./testdata/scenarios
  etk test ./testdata/scenarios --filter "keypad_*"
  etk test ./testdata/scenarios --update
  etk test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("scenarios directory not found: %s", scenariosDir), nil)
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("failed to find scenarios: %v", err), nil)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	for _, file := range files {
		sr := runScenario(cmd.Context(), file, opts.Update)
		logger.Debug("scenario finished",
			"scenario", sr.Name,
			"pass", sr.Pass,
			"steps", sr.Steps,
			"golden", sr.Golden,
		)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd.OutOrStdout(), result)
	}
	return outputTestText(cmd.OutOrStdout(), result)
}

// findScenarioFiles finds all YAML scenario files under dir whose base
// name matches filter.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		ext := filepath.Ext(path)
		if info.IsDir() || (ext != ".yaml" && ext != ".yml") {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(filepath.Base(path), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario loads and runs one scenario file, then checks or rewrites
// its golden transcript.
func runScenario(ctx context.Context, file string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file, Golden: goldenNone}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("Load error: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := harness.RunContext(ctx, scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("Execution error: %v", err)}
		return sr
	}
	sr.Steps = len(result.Trace)
	sr.History = len(result.History)
	sr.Failures = stepFailures(scenario, result)
	sr.Errors = harness.EvaluateAssertions(result, scenario.Assertions)

	goldenPath := goldenFilePath(file)
	switch {
	case update:
		if err := updateGoldenFile(scenario, result, goldenPath); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("Golden update error: %v", err))
		} else {
			sr.Golden = goldenUpdated
		}
	case fileExists(goldenPath):
		match, err := compareWithGolden(scenario, result, goldenPath)
		switch {
		case err != nil:
			sr.Errors = append(sr.Errors, fmt.Sprintf("Golden comparison error: %v", err))
		case match:
			sr.Golden = goldenMatch
		default:
			sr.Golden = goldenMismatch
		}
	}

	sr.Pass = len(sr.Failures) == 0 && len(sr.Errors) == 0 && sr.Golden != goldenMismatch
	return sr
}

// stepFailures pairs each step's expect clause with the display it produced.
func stepFailures(scenario *harness.Scenario, result *harness.Result) []StepFailure {
	var failures []StepFailure
	for i, event := range result.Trace {
		if i >= len(scenario.Steps) {
			break
		}
		expect := scenario.Steps[i].Expect
		if expect == nil || *expect == event.Display {
			continue
		}
		failures = append(failures, StepFailure{
			Step:     event.Step,
			Kind:     event.Kind,
			Input:    event.Input,
			Mode:     event.Mode,
			Expected: *expect,
			Got:      event.Display,
		})
	}
	return failures
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// goldenFilePath returns <dir>/golden/<name>.golden for <dir>/<name>.yaml.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// updateGoldenFile writes the current transcript as the golden file.
func updateGoldenFile(scenario *harness.Scenario, result *harness.Result, goldenPath string) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	data, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden reports whether the transcript matches the golden file.
func compareWithGolden(scenario *harness.Scenario, result *harness.Result, goldenPath string) (bool, error) {
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return bytes.Equal(want, got), nil
}

// outputTestJSON writes the envelope with the full result as data, plus an
// error when any scenario failed.
func outputTestJSON(w io.Writer, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, response.Error.Message)
	}
	return nil
}

func outputTestText(w io.Writer, result TestResult) error {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, sr := range result.Scenarios {
		writeScenarioText(w, sr)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

func writeScenarioText(w io.Writer, sr ScenarioResult) {
	if sr.Pass {
		if sr.Golden == goldenUpdated {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", sr.Name)
			return
		}
		fmt.Fprintf(w, "✓ %s (%d steps, %d history %s)\n", sr.Name, sr.Steps, sr.History, plural(sr.History, "entry", "entries"))
		return
	}

	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, f := range sr.Failures {
		fmt.Fprintf(w, "  %s\n", f)
	}
	for _, e := range sr.Errors {
		for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	if sr.Golden == goldenMismatch {
		fmt.Fprintln(w, "  Golden file mismatch (run with --update to regenerate)")
	}
}
