package memptr

import "github.com/roach88/memptr/internal/checked"

// Summand is one scale * term contribution to a decomposed form. The zero
// value is the empty summand (no term). Non-empty summands never carry a
// representable zero scale: a zero contribution must be dropped by the
// parser, not stored.
type Summand struct {
	term  Node
	scale checked.Int
}

// NewSummand builds a summand. It panics on a nil term or a zero scale;
// both indicate a defect in the parser, which owns those invariants. A NaN
// scale is permitted here: poisoned scales travel through the worklist and
// are rejected when a form is assembled.
func NewSummand(term Node, scale checked.Int) Summand {
	if term == nil {
		panic("memptr: summand term must not be nil")
	}
	if scale.IsZero() {
		panic("memptr: summand scale must not be zero")
	}
	return Summand{term: term, scale: scale}
}

// Term returns the symbolic term, or nil for the empty summand.
func (s Summand) Term() Node {
	return s.term
}

// Scale returns the scale factor.
func (s Summand) Scale() checked.Int {
	return s.scale
}

// IsEmpty reports whether s is the empty summand.
func (s Summand) IsEmpty() bool {
	return s.term == nil
}

// Equal reports whether two summands are interchangeable: both empty, or
// the same term identity with equal scales. A NaN scale on either side
// compares unequal, like every other NaN comparison.
func (s Summand) Equal(other Summand) bool {
	if s.term == nil || other.term == nil {
		return s.term == nil && other.term == nil
	}
	return s.term.ID() == other.term.ID() && s.scale.Eq(other.scale)
}

func (s Summand) String() string {
	if s.term == nil {
		return "<empty>"
	}
	return s.scale.String() + " * " + s.term.String()
}
