package memptr

import (
	"sort"

	"github.com/roach88/memptr/internal/checked"
)

// maxParseSteps caps worklist pops for a single parse. The expression graph
// is a DAG: a shared subexpression is revisited once per path reaching it,
// so deeply shared graphs can cost far more pops than they have nodes. A
// parse that runs out of budget degrades to the trivial form.
const maxParseSteps = 1000

// Decompose parses the address expression of access into the canonical
// decomposed form
//
//	address = con + sum(scale_i * term_i)
//
// peeling off every operator the policy proves safe to decompose and keeping
// the rest as opaque terminal terms. Expressions the form cannot hold (too
// many distinct terms, poisoned arithmetic, exhausted step budget) come
// back as the trivial form of the address, never as an error.
func Decompose(access Access, pol Policy) Form {
	if access == nil {
		panic("memptr: access must not be nil")
	}
	pointer := access.Address()
	if pointer == nil {
		panic("memptr: access address must not be nil")
	}
	p := &parser{
		access: access,
		policy: pol,
		con:    checked.New(0),
	}
	return p.parse(pointer)
}

// parser holds the state of one decomposition: a LIFO worklist of pending
// summands, the terminal summands collected so far, and the running
// constant. All of it is scoped to a single Decompose call.
type parser struct {
	access   Access
	policy   Policy
	con      checked.Int
	worklist []Summand
	terms    []Summand
}

func (p *parser) parse(pointer Node) Form {
	p.push(pointer, checked.New(1))
	for steps := 0; len(p.worklist) > 0; steps++ {
		if steps >= maxParseSteps {
			return TrivialForm(pointer)
		}
		s := p.worklist[len(p.worklist)-1]
		p.worklist = p.worklist[:len(p.worklist)-1]
		if !p.step(s) {
			return TrivialForm(pointer)
		}
	}
	sort.Slice(p.terms, func(i, j int) bool {
		return p.terms[i].Term().ID() < p.terms[j].Term().ID()
	})
	return NewForm(pointer, p.terms, p.con)
}

// step consumes one pending summand: fold it into the constant, replace it
// with sub-summands, or merge it into the terminal output. It reports false
// when the parse must abandon decomposition and fall back to the trivial
// form.
func (p *parser) step(s Summand) bool {
	n := s.Term()
	scale := s.Scale()

	// Constant folding is exact for every value the constant can hold;
	// anything larger poisons the accumulator and aborts the parse.
	if n.Kind() == KindLiteral {
		p.con = p.con.Add(scale.Mul(checked.New(n.Literal())))
		return !p.con.IsNaN()
	}

	if !p.safeToDecompose(n, scale) {
		return p.mergeTerminal(s)
	}

	switch n.Kind() {
	case KindAdd:
		p.push(n.Operand(0), scale)
		p.push(n.Operand(1), scale)
		return true
	case KindSub:
		p.push(n.Operand(0), scale)
		p.push(n.Operand(1), scale.Neg())
		return true
	case KindMul:
		if c, ok := literalOperand(n.Operand(1)); ok {
			p.push(n.Operand(0), scale.Mul(c))
			return true
		}
		// Variable times variable stays opaque.
		return p.mergeTerminal(s)
	case KindShiftL:
		if c, ok := literalOperand(n.Operand(1)); ok {
			p.push(n.Operand(0), scale.Lsh(c))
			return true
		}
		return p.mergeTerminal(s)
	case KindWiden:
		p.push(n.Operand(0), scale)
		return true
	default:
		return p.mergeTerminal(s)
	}
}

// safeToDecompose reports whether peeling n apart under the current scale
// keeps the decomposition within the two admissible safety classes. Safe1
// steps are exact for all operand values. Safe2 steps may differ from the
// exact result by a multiple of elem*2^32, which is only acceptable when
// the access is a statically typed array access and either the host has
// range-checked the index arithmetic or the scale is itself a multiple of
// the element size.
func (p *parser) safeToDecompose(n Node, scale checked.Int) bool {
	switch p.policy.ClassOf(n.Kind(), n.Width()) {
	case ClassSafe1:
		return true
	case ClassSafe2:
		elem, ok := p.access.ArrayElemSize()
		if !ok {
			return false
		}
		return p.access.RangeChecked() || scale.IsMultipleOf(checked.New(int64(elem)))
	default:
		return false
	}
}

// push queues a pending summand. Zero-scale contributions vanish here, so
// neither the worklist nor the output ever stores a representable zero
// scale. Poisoned scales are kept: they must reach a terminal merge or a
// constant fold, where they abort the parse.
func (p *parser) push(term Node, scale checked.Int) {
	if scale.IsZero() {
		return
	}
	p.worklist = append(p.worklist, NewSummand(term, scale))
}

// mergeTerminal folds a terminal summand into the output, combining scales
// when the term is already present. It reports false when the form cannot
// hold the result: a poisoned scale, or more distinct terms than a form has
// slots for.
func (p *parser) mergeTerminal(s Summand) bool {
	if s.Scale().IsNaN() {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Term().ID() != s.Term().ID() {
			continue
		}
		combined := p.terms[i].Scale().Add(s.Scale())
		if combined.IsNaN() {
			return false
		}
		if combined.IsZero() {
			p.terms = append(p.terms[:i], p.terms[i+1:]...)
			return true
		}
		p.terms[i] = NewSummand(p.terms[i].Term(), combined)
		return true
	}
	if len(p.terms) == MaxSummands {
		return false
	}
	p.terms = append(p.terms, NewSummand(s.Term(), s.Scale()))
	return true
}

func literalOperand(n Node) (checked.Int, bool) {
	if n.Kind() != KindLiteral {
		return checked.Int{}, false
	}
	return checked.New(n.Literal()), true
}
