package memptr

import (
	"fmt"
	"io"
)

// Trace selects which analysis stages emit diagnostics and where they go.
// A nil *Trace, a nil writer, or all-false switches mean silence. Tracing
// never changes analysis results.
type Trace struct {
	Parse     bool
	Aliasing  bool
	Adjacency bool
	W         io.Writer
}

func (t *Trace) parsef(format string, args ...any) {
	if t == nil || !t.Parse || t.W == nil {
		return
	}
	fmt.Fprintf(t.W, format, args...)
}

func (t *Trace) aliasingf(format string, args ...any) {
	if t == nil || !t.Aliasing || t.W == nil {
		return
	}
	fmt.Fprintf(t.W, format, args...)
}

func (t *Trace) adjacencyf(format string, args ...any) {
	if t == nil || !t.Adjacency || t.W == nil {
		return
	}
	fmt.Fprintf(t.W, format, args...)
}
