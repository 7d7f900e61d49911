package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/memptr/internal/memptr"
)

// PolicyEntry is one operator/width classification in a policy report.
type PolicyEntry struct {
	Op    string `json:"op"`
	Bits  int    `json:"bits"`
	Class string `json:"class"`
}

// PolicyReport is the policy command's response payload.
type PolicyReport struct {
	Source      string        `json:"source"`
	AddressBits int           `json:"address_bits"`
	Rules       []PolicyEntry `json:"rules"`
}

// NewPolicyCommand creates the policy command.
func NewPolicyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Show the effective decomposition safety table",
		Long: `Show the classification the parser consults for every decomposable
operator at both operand widths, after compiling the policy artifact
selected by --policy (the embedded canonical table when the flag is
unset). At a 32-bit address width every operator reports safe1: the
decomposed arithmetic runs at the same width the hardware address uses.

Examples:
  memptr policy
  memptr policy --policy custom.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(rootOpts, cmd)
		},
	}

	return cmd
}

func runPolicy(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	pol, err := effectivePolicy(opts)
	if err != nil {
		return commandError(formatter, ErrCodePolicyLoad, err.Error())
	}

	source := "builtin"
	if opts.PolicyFile != "" {
		source = opts.PolicyFile
	}

	report := &PolicyReport{
		Source:      source,
		AddressBits: int(pol.AddressWidth),
	}
	kinds := []memptr.Kind{memptr.KindAdd, memptr.KindSub, memptr.KindMul, memptr.KindShiftL, memptr.KindWiden}
	for _, k := range kinds {
		for _, w := range []memptr.Width{memptr.Width64, memptr.Width32} {
			report.Rules = append(report.Rules, PolicyEntry{
				Op:    k.String(),
				Bits:  int(w),
				Class: pol.ClassOf(k, w).String(),
			})
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "source: %s\n", report.Source)
	fmt.Fprintf(w, "address_bits: %d\n", report.AddressBits)
	for _, r := range report.Rules {
		fmt.Fprintf(w, "%s/%d: %s\n", r.Op, r.Bits, r.Class)
	}
	return nil
}
