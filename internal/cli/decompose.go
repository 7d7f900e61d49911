package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/memptr/internal/harness"
	"github.com/roach88/memptr/internal/memptr"
)

// DecomposeOptions holds flags for the decompose command.
type DecomposeOptions struct {
	*RootOptions
	Access string // restrict output to one named access
}

// DecomposedAccess is one access's decomposition in the JSON payload.
type DecomposedAccess struct {
	Access  string `json:"access"`
	Address string `json:"address"`
	Form    string `json:"form"`
	Trivial bool   `json:"trivial"`
}

// DecomposeReport is the decompose command's JSON payload.
type DecomposeReport struct {
	Scenario string             `json:"scenario"`
	Accesses []DecomposedAccess `json:"accesses"`
}

// NewDecomposeCommand creates the decompose command.
func NewDecomposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecomposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decompose <scenario>",
		Short: "Print canonical pointer forms for a scenario's accesses",
		Long: `Decompose the address of each access declared by a scenario file into the
canonical form

  address = con + sum(scale_i * term_i)

under the effective policy table. Addresses the analysis cannot hold in
that form (too many distinct terms, poisoned arithmetic, exhausted parse
budget) print their trivial form instead.

Examples:
  memptr decompose scenario.yaml
  memptr decompose scenario.yaml --access a1
  memptr decompose scenario.yaml --format json --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Access, "access", "", "decompose only the named access")

	return cmd
}

func runDecompose(opts *DecomposeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	pol, err := effectivePolicy(opts.RootOptions)
	if err != nil {
		return commandError(formatter, ErrCodePolicyLoad, err.Error())
	}
	scenario, accs, err := loadAccesses(path)
	if err != nil {
		return commandError(formatter, ErrCodeScenarioLoad, fmt.Sprintf("loading scenario %s: %v", path, err))
	}
	pol = scenario.EffectivePolicy(pol)

	specs := scenario.Accesses
	if opts.Access != "" {
		want := norm.NFC.String(opts.Access)
		specs = nil
		for _, as := range scenario.Accesses {
			if as.Name == want {
				specs = []harness.AccessSpec{as}
				break
			}
		}
		if specs == nil {
			return commandError(formatter, ErrCodeUnknownAccess,
				fmt.Sprintf("scenario %q declares no access %q (has: %s)",
					scenario.Name, want, strings.Join(accessNames(scenario), ", ")))
		}
	}

	trace := traceFor(formatter)
	report := DecomposeReport{Scenario: scenario.Name}
	for _, as := range specs {
		p := memptr.NewPointer(accs[as.Name], pol, trace)
		report.Accesses = append(report.Accesses, DecomposedAccess{
			Access:  as.Name,
			Address: p.Access().Address().String(),
			Form:    p.Form().String(),
			Trivial: p.Form().IsTrivial(),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "scenario: %s\n", report.Scenario)
	for _, d := range report.Accesses {
		fmt.Fprintf(w, "%s: %s = %s\n", d.Access, d.Address, d.Form)
	}
	return nil
}
