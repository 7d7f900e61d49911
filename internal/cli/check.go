package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/memptr/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Run scenario expectations as a conformance suite",
		Long: `Run every check declared by the given scenario files and compare the
analysis outcomes against the scenarios' expectations. Directory arguments
are searched recursively for *.yaml / *.yml files. One failing scenario
never hides the rest.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  memptr check ./scenarios
  memptr check ./scenarios --filter "safe2-*"
  memptr check one.yaml two.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	pol, err := effectivePolicy(opts.RootOptions)
	if err != nil {
		return commandError(formatter, ErrCodePolicyLoad, err.Error())
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if os.IsNotExist(err) {
			return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("path not found: %s", arg))
		}
		if err != nil {
			return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("accessing %s: %v", arg, err))
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := findScenarioFiles(arg, opts.Filter)
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("scanning %s: %v", arg, err))
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(&harness.SuiteResult{})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	formatter.VerboseLog("Running %d scenario file(s)", len(files))
	suite := harness.RunFiles(files, pol)

	if formatter.Format == "json" {
		return outputCheckJSON(formatter, suite)
	}
	return outputCheckText(cmd, suite)
}

// findScenarioFiles finds all YAML scenario files under dir. The filter, if
// any, is a glob matched against the file name without its extension.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
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

// outputCheckJSON outputs the suite result as JSON.
func outputCheckJSON(formatter *OutputFormatter, suite *harness.SuiteResult) error {
	if suite.Failed == 0 {
		return formatter.Success(suite)
	}

	// Failed suites keep the suite payload next to the error so tooling can
	// see which scenarios broke without a second text-format run.
	err := formatter.emit(CLIResponse{
		Status: "error",
		Data:   suite,
		Error: &CLIError{
			Code:    ErrCodeCheckFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", suite.Failed),
		},
	})
	if err != nil {
		return err
	}

	return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
}

// outputCheckText outputs the suite result as text.
func outputCheckText(cmd *cobra.Command, suite *harness.SuiteResult) error {
	w := cmd.OutOrStdout()

	for _, f := range suite.Failures {
		fmt.Fprintf(w, "✗ %s (%s)\n", f.Scenario, f.Path)
		fmt.Fprintf(w, "  %s\n", f.Error)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.TotalScenarios)

	if suite.Failed > 0 {
		// Check failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
