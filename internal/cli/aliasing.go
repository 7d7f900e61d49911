package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/memptr/internal/memptr"
)

// AliasingReport is the aliasing command's JSON payload.
type AliasingReport struct {
	Scenario   string `json:"scenario"`
	First      string `json:"first"`
	Second     string `json:"second"`
	FirstForm  string `json:"first_form"`
	SecondForm string `json:"second_form"`
	Verdict    string `json:"verdict"`
}

// NewAliasingCommand creates the aliasing command.
func NewAliasingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliasing <scenario> <first> <second>",
		Short: "Compare two accesses' decomposed forms",
		Long: `Decompose two named accesses and report the provable byte distance between
their addresses: Always(d) when the second address is exactly d bytes past
the first in every execution, Unknown when nothing can be proven.

Examples:
  memptr aliasing scenario.yaml a1 a2
  memptr aliasing scenario.yaml a1 a2 --format json --verbose`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAliasing(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runAliasing(opts *RootOptions, path, first, second string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	pol, err := effectivePolicy(opts)
	if err != nil {
		return commandError(formatter, ErrCodePolicyLoad, err.Error())
	}
	scenario, accs, err := loadAccesses(path)
	if err != nil {
		return commandError(formatter, ErrCodeScenarioLoad, fmt.Sprintf("loading scenario %s: %v", path, err))
	}
	pol = scenario.EffectivePolicy(pol)

	firstAcc, err := namedAccess(scenario, accs, first)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownAccess, err.Error())
	}
	secondAcc, err := namedAccess(scenario, accs, second)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownAccess, err.Error())
	}

	trace := traceFor(formatter)
	p := memptr.NewPointer(firstAcc, pol, trace)
	q := memptr.NewPointer(secondAcc, pol, trace)
	verdict := p.AliasingWith(q)

	report := AliasingReport{
		Scenario:   scenario.Name,
		First:      first,
		Second:     second,
		FirstForm:  p.Form().String(),
		SecondForm: q.Form().String(),
		Verdict:    verdict.String(),
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "aliasing %s %s = %s\n", first, second, verdict)
	return nil
}
