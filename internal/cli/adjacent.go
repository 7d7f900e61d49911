package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/memptr/internal/memptr"
)

// AdjacencyReport is the adjacent command's JSON payload.
type AdjacencyReport struct {
	Scenario   string `json:"scenario"`
	Before     string `json:"before"`
	After      string `json:"after"`
	BeforeForm string `json:"before_form"`
	AfterForm  string `json:"after_form"`
	Size       int32  `json:"size"` // byte size of the before access
	Adjacent   bool   `json:"adjacent"`
}

// NewAdjacentCommand creates the adjacent command.
func NewAdjacentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjacent <scenario> <before> <after>",
		Short: "Ask whether one access ends exactly where another begins",
		Long: `Run the adjacency predicate over two named accesses: true when the before
access provably ends exactly where the after access begins (the distance
between the addresses is always the before access's byte size). This is the
question store-merging asks; Unknown comparisons answer false.

Examples:
  memptr adjacent scenario.yaml a1 a2
  memptr adjacent scenario.yaml a1 a2 --format json --verbose`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjacent(rootOpts, args[0], args[1], args[2], cmd)
		},
	}

	return cmd
}

func runAdjacent(opts *RootOptions, path, before, after string, cmd *cobra.Command) error {
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

	beforeAcc, err := namedAccess(scenario, accs, before)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownAccess, err.Error())
	}
	afterAcc, err := namedAccess(scenario, accs, after)
	if err != nil {
		return commandError(formatter, ErrCodeUnknownAccess, err.Error())
	}

	trace := traceFor(formatter)
	p := memptr.NewPointer(beforeAcc, pol, trace)
	q := memptr.NewPointer(afterAcc, pol, trace)
	adjacent := p.IsAdjacentToAndBefore(q)

	report := AdjacencyReport{
		Scenario:   scenario.Name,
		Before:     before,
		After:      after,
		BeforeForm: p.Form().String(),
		AfterForm:  q.Form().String(),
		Size:       p.Access().Size(),
		Adjacent:   adjacent,
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "adjacent %s %s = %v\n", before, after, adjacent)
	return nil
}
