package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/memptr/internal/graph"
	"github.com/roach88/memptr/internal/harness"
	"github.com/roach88/memptr/internal/memptr"
	"github.com/roach88/memptr/internal/policy"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeScenarioLoad = "E003" // Scenario parse or validation failure
	ErrCodePolicyLoad   = "E004" // Policy table load/compile failure

	// Query errors
	ErrCodeUnknownAccess = "E101" // Named access not declared by the scenario
	ErrCodeCheckFailed   = "E102" // Scenario expectations not met
)

// newFormatter builds the per-command output formatter from the global
// options and the command's writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		RunID:     opts.RunID,
	}
}

// effectivePolicy returns the policy table commands analyze under: the
// built-in default, or the table compiled from --policy.
func effectivePolicy(opts *RootOptions) (memptr.Policy, error) {
	if opts.PolicyFile == "" {
		return policy.Default(), nil
	}
	pol, err := policy.Load(opts.PolicyFile)
	if err != nil {
		return memptr.Policy{}, fmt.Errorf("loading policy table %s: %w", opts.PolicyFile, err)
	}
	return pol, nil
}

// loadAccesses loads one scenario file and builds its expression graph,
// returning the scenario and its accesses by name.
func loadAccesses(path string) (*harness.Scenario, map[string]graph.Access, error) {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	accs, err := harness.BuildAccesses(scenario)
	if err != nil {
		return nil, nil, err
	}
	return scenario, accs, nil
}

// namedAccess resolves one access handle, listing the declared handles on a
// miss so typos are cheap to fix. Handles are NFC-folded like the scenario
// loader folds declarations.
func namedAccess(scenario *harness.Scenario, accs map[string]graph.Access, name string) (graph.Access, error) {
	name = norm.NFC.String(name)
	if acc, ok := accs[name]; ok {
		return acc, nil
	}
	return graph.Access{}, fmt.Errorf("scenario %q declares no access %q (has: %s)",
		scenario.Name, name, strings.Join(accessNames(scenario), ", "))
}

// accessNames returns the scenario's access handles in declaration order.
func accessNames(s *harness.Scenario) []string {
	names := make([]string, 0, len(s.Accesses))
	for _, a := range s.Accesses {
		names = append(names, a.Name)
	}
	return names
}

// traceFor arms the analysis trace for verbose runs; diagnostics go to the
// formatter's error writer so JSON output stays clean. A nil trace keeps
// the analysis silent.
func traceFor(f *OutputFormatter) *memptr.Trace {
	if !f.Verbose {
		return nil
	}
	return &memptr.Trace{Parse: true, Aliasing: true, Adjacency: true, W: f.GetErrWriter()}
}

// commandError reports the failure through the formatter and converts it to
// a command-error exit.
func commandError(f *OutputFormatter, code, message string) error {
	_ = f.Error(code, message, nil)
	return NewExitError(ExitCommandError, message)
}
