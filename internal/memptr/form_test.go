package memptr_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memptr/internal/checked"
	"github.com/roach88/memptr/internal/graph"
	"github.com/roach88/memptr/internal/memptr"
)

func TestTrivialForm(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)

	f := memptr.TrivialForm(p)
	assert.True(t, f.IsTrivial())
	assert.Equal(t, p.ID(), f.Pointer().ID())
	assert.True(t, f.Con().IsZero())
	require.Equal(t, 1, f.NumSummands())
	assert.Equal(t, p.ID(), f.Summand(0).Term().ID())
	assert.True(t, f.Summand(0).Scale().IsOne())

	require.Panics(t, func() { memptr.TrivialForm(nil) })
}

func TestNewForm(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)
	base := g.Opaque("base", memptr.Width64)
	idx := g.Opaque("i", memptr.Width64)

	summands := []memptr.Summand{
		memptr.NewSummand(base, checked.New(1)),
		memptr.NewSummand(idx, checked.New(4)),
	}
	f := memptr.NewForm(p, summands, checked.New(16))

	assert.False(t, f.IsTrivial())
	assert.Equal(t, p.ID(), f.Pointer().ID())
	assert.True(t, f.Con().Eq(checked.New(16)))
	require.Equal(t, 2, f.NumSummands())
	assert.True(t, f.Summand(0).Equal(summands[0]))
	assert.True(t, f.Summand(1).Equal(summands[1]))

	require.Panics(t, func() { memptr.NewForm(nil, summands, checked.New(0)) })
	require.Panics(t, func() { f.Summand(2) }, "index out of range")
	require.Panics(t, func() { f.Summand(-1) }, "negative index")
}

// Inputs a form cannot represent degrade to the trivial fallback: the caller
// must see "no decomposition occurred", never a partial result.
func TestNewFormFallsBack(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)

	t.Run("over capacity", func(t *testing.T) {
		var summands []memptr.Summand
		for i := 0; i <= memptr.MaxSummands; i++ {
			term := g.Opaque(fmt.Sprintf("t%d", i), memptr.Width64)
			summands = append(summands, memptr.NewSummand(term, checked.New(1)))
		}
		f := memptr.NewForm(p, summands, checked.New(8))
		assert.True(t, f.IsTrivial())

		// One fewer fits exactly.
		full := memptr.NewForm(p, summands[:memptr.MaxSummands], checked.New(8))
		assert.False(t, full.IsTrivial())
		assert.Equal(t, memptr.MaxSummands, full.NumSummands())
	})

	t.Run("nan constant", func(t *testing.T) {
		base := g.Opaque("base", memptr.Width64)
		summands := []memptr.Summand{memptr.NewSummand(base, checked.New(1))}
		f := memptr.NewForm(p, summands, checked.NaN())
		assert.True(t, f.IsTrivial())
		assert.Equal(t, p.ID(), f.Summand(0).Term().ID())
	})
}

// Structurally invalid summands are parser defects, not representability
// limits, and panic instead of degrading.
func TestNewFormPanicsOnInvalidSummands(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)
	base := g.Opaque("base", memptr.Width64)

	require.Panics(t, func() {
		memptr.NewForm(p, []memptr.Summand{{}}, checked.New(0))
	}, "empty summand")
	require.Panics(t, func() {
		memptr.NewForm(p, []memptr.Summand{memptr.NewSummand(base, checked.NaN())}, checked.New(0))
	}, "NaN scale")
}

func TestFormIsTrivial(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)
	q := g.Opaque("q", memptr.Width64)

	one := func(term memptr.Node, scale int64, con int64) memptr.Form {
		return memptr.NewForm(p, []memptr.Summand{memptr.NewSummand(term, checked.New(scale))}, checked.New(con))
	}

	assert.True(t, one(p, 1, 0).IsTrivial())
	assert.False(t, one(p, 1, 4).IsTrivial(), "nonzero constant")
	assert.False(t, one(p, 2, 0).IsTrivial(), "scale not one")
	assert.False(t, one(q, 1, 0).IsTrivial(), "summand is not the pointer")
	assert.False(t, memptr.NewForm(p, nil, checked.New(0)).IsTrivial(), "no summands")
}

func TestFormEqual(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)
	q := g.Opaque("q", memptr.Width64)
	base := g.Opaque("base", memptr.Width64)
	idx := g.Opaque("i", memptr.Width64)

	mk := func(pointer memptr.Node, con int64, scales ...int64) memptr.Form {
		terms := []memptr.Node{base, idx}
		var summands []memptr.Summand
		for i, s := range scales {
			summands = append(summands, memptr.NewSummand(terms[i], checked.New(s)))
		}
		return memptr.NewForm(pointer, summands, checked.New(con))
	}

	f := mk(p, 16, 1, 4)
	assert.True(t, f.Equal(f))
	assert.True(t, f.Equal(mk(p, 16, 1, 4)))
	assert.False(t, f.Equal(mk(p, 20, 1, 4)), "different constant")
	assert.False(t, f.Equal(mk(p, 16, 1, 8)), "different scale")
	assert.False(t, f.Equal(mk(p, 16, 1)), "different summand count")
	assert.False(t, f.Equal(mk(q, 16, 1, 4)), "different pointer")

	var zero memptr.Form
	assert.True(t, zero.Equal(memptr.Form{}))
	assert.False(t, zero.Equal(f))
	assert.False(t, f.Equal(zero))
}

func TestFormString(t *testing.T) {
	g := graph.New()
	p := g.Opaque("p", memptr.Width64)
	base := g.Opaque("base", memptr.Width64)
	idx := g.Opaque("i", memptr.Width64)

	f := memptr.NewForm(p, []memptr.Summand{
		memptr.NewSummand(base, checked.New(1)),
		memptr.NewSummand(idx, checked.New(4)),
	}, checked.New(16))
	assert.Equal(t, "(16 + 1 * base + 4 * i)", f.String())

	bare := memptr.NewForm(p, nil, checked.New(-8))
	assert.Equal(t, "(-8)", bare.String())
}
