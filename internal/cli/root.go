package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	PolicyFile string // CUE policy table overriding the built-in default
	RunID      string // correlation ID carried in JSON responses
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the memptr CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "memptr",
		Short: "memptr - pointer decomposition and aliasing workbench",
		Long: `Inspection tooling for the pointer aliasing analysis.

Scenario files describe synthetic address expression graphs together with
the memory accesses whose addresses live in them. The subcommands run the
analysis over those scenarios: decompose prints canonical pointer forms,
aliasing and adjacent answer the two comparison questions, and check runs
scenario expectations as a conformance suite.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once, with the exit code
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// Every invocation gets a correlation ID unless the caller
			// pinned one (tests do, for byte-stable output).
			if opts.RunID == "" {
				opts.RunID = uuid.Must(uuid.NewV7()).String()
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.PolicyFile, "policy", "", "CUE policy table (default: built-in)")
	cmd.PersistentFlags().StringVar(&opts.RunID, "run-id", "", "correlation ID for JSON output (generated if empty)")

	// Add subcommands
	cmd.AddCommand(NewDecomposeCommand(opts))
	cmd.AddCommand(NewAliasingCommand(opts))
	cmd.AddCommand(NewAdjacentCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewPolicyCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
