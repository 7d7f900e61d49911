package memptr

import (
	"strings"

	"github.com/roach88/memptr/internal/checked"
)

// MaxSummands is the summand capacity of a Form. Real address expressions
// rarely carry more than a handful of symbolic terms; a pointer needing more
// than this many is not worth decomposing, and the parser falls back to the
// trivial form instead.
const MaxSummands = 10

// Form is the decomposed representation of one pointer expression:
//
//	pointer = con + sum(scale_i * term_i)
//
// Summands are stored with an explicit count (no sentinel slots), sorted by
// term ID ascending, each with a valid non-zero scale; con is never NaN.
// Forms are immutable and only comparable against forms parsed from the same
// expression graph.
type Form struct {
	pointer  Node
	con      checked.Int
	summands [MaxSummands]Summand
	n        int
}

// TrivialForm returns the non-decomposed form of pointer: constant 0 and the
// single summand 1 * pointer. It is the universal fallback: callers must
// treat it as "no decomposition occurred", never as data loss.
func TrivialForm(pointer Node) Form {
	if pointer == nil {
		panic("memptr: form pointer must not be nil")
	}
	f := Form{pointer: pointer, con: checked.New(0), n: 1}
	f.summands[0] = NewSummand(pointer, checked.New(1))
	return f
}

// NewForm assembles a form from parsed summands. Inputs that merely exceed
// what a form can represent degrade to the trivial form: more than
// MaxSummands summands, or a NaN constant. Structurally invalid inputs
// (empty summands, NaN scales) panic, since the parser filters them before
// construction.
func NewForm(pointer Node, summands []Summand, con checked.Int) Form {
	if pointer == nil {
		panic("memptr: form pointer must not be nil")
	}
	if len(summands) > MaxSummands || con.IsNaN() {
		return TrivialForm(pointer)
	}
	f := Form{pointer: pointer, con: con, n: len(summands)}
	for i, s := range summands {
		if s.IsEmpty() {
			panic("memptr: form summand must not be empty")
		}
		if s.Scale().IsNaN() {
			panic("memptr: form summand scale must not be NaN")
		}
		f.summands[i] = s
	}
	return f
}

// Pointer returns the expression the form was parsed from.
func (f Form) Pointer() Node {
	return f.pointer
}

// Con returns the constant part.
func (f Form) Con() checked.Int {
	return f.con
}

// NumSummands returns the number of summands.
func (f Form) NumSummands() int {
	return f.n
}

// Summand returns the i-th summand in term-ID order.
func (f Form) Summand(i int) Summand {
	if i < 0 || i >= f.n {
		panic("memptr: summand index out of range")
	}
	return f.summands[i]
}

// IsTrivial reports whether f is the trivial form of its pointer.
func (f Form) IsTrivial() bool {
	return f.n == 1 &&
		f.con.IsZero() &&
		f.summands[0].Term().ID() == f.pointer.ID() &&
		f.summands[0].Scale().IsOne()
}

// Equal reports whether two forms are identical: same originating pointer,
// equal constants, and pairwise-equal summands.
func (f Form) Equal(other Form) bool {
	if f.pointer == nil || other.pointer == nil {
		return f.pointer == nil && other.pointer == nil
	}
	if f.pointer.ID() != other.pointer.ID() || f.n != other.n || !f.con.Eq(other.con) {
		return false
	}
	for i := 0; i < f.n; i++ {
		if !f.summands[i].Equal(other.summands[i]) {
			return false
		}
	}
	return true
}

// String renders the form as "(con + scale * term + ...)".
func (f Form) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(f.con.String())
	for i := 0; i < f.n; i++ {
		b.WriteString(" + ")
		b.WriteString(f.summands[i].String())
	}
	b.WriteByte(')')
	return b.String()
}
