// Command memptr inspects the pointer aliasing analysis over scenario files.
//
// Usage:
//
//	memptr decompose <scenario>                 Print canonical pointer forms
//	memptr aliasing <scenario> <first> <second> Provable distance between two accesses
//	memptr adjacent <scenario> <before> <after> Adjacency predicate for store merging
//	memptr check <path>...                      Run scenarios as a conformance suite
//	memptr policy                               Show the effective safety table
//
// Global flags:
//
//	--format json|text   Output format (default text)
//	--policy <file>      CUE policy table overriding the built-in default
//	--run-id <id>        Correlation ID for JSON output (generated if empty)
//	-v, --verbose        Emit analysis traces on stderr
//
// Exit codes: 0 on success, 1 when scenario expectations fail, 2 on
// command errors such as unreadable files or unknown access names.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/memptr/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Command errors already reported themselves through the output
		// formatter; this catches flag and argument errors too.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
