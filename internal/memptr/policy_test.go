package memptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/memptr/internal/memptr"
)

func TestClassOfZeroPolicy(t *testing.T) {
	var pol memptr.Policy

	for _, k := range []memptr.Kind{
		memptr.KindAdd, memptr.KindSub, memptr.KindMul,
		memptr.KindShiftL, memptr.KindWiden,
	} {
		assert.Equal(t, memptr.ClassNever, pol.ClassOf(k, memptr.Width64), "%s at 64", k)
		assert.Equal(t, memptr.ClassNever, pol.ClassOf(k, memptr.Width32), "%s at 32", k)
	}
}

func TestClassOfTableLookup(t *testing.T) {
	pol := memptr.Policy{
		AddressWidth: memptr.Width64,
		Classes: map[memptr.OpWidth]memptr.Class{
			{Kind: memptr.KindAdd, Width: memptr.Width64}: memptr.ClassSafe1,
			{Kind: memptr.KindAdd, Width: memptr.Width32}: memptr.ClassSafe2,
		},
	}

	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindAdd, memptr.Width64))
	assert.Equal(t, memptr.ClassSafe2, pol.ClassOf(memptr.KindAdd, memptr.Width32))
	assert.Equal(t, memptr.ClassNever, pol.ClassOf(memptr.KindSub, memptr.Width64))
}

// On a 32-bit target the address itself wraps at the width every rewrite
// runs at, so the table is bypassed: everything decomposes exactly.
func TestClassOfNarrowAddressTarget(t *testing.T) {
	pol := memptr.Policy{AddressWidth: memptr.Width32}

	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindAdd, memptr.Width32))
	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindMul, memptr.Width32))
	assert.Equal(t, memptr.ClassSafe1, pol.ClassOf(memptr.KindShiftL, memptr.Width32))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "opaque", memptr.KindOpaque.String())
	assert.Equal(t, "literal", memptr.KindLiteral.String())
	assert.Equal(t, "add", memptr.KindAdd.String())
	assert.Equal(t, "sub", memptr.KindSub.String())
	assert.Equal(t, "mul", memptr.KindMul.String())
	assert.Equal(t, "shiftl", memptr.KindShiftL.String())
	assert.Equal(t, "widen", memptr.KindWiden.String())
	assert.Equal(t, "kind(99)", memptr.Kind(99).String())
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "never", memptr.ClassNever.String())
	assert.Equal(t, "safe1", memptr.ClassSafe1.String())
	assert.Equal(t, "safe2", memptr.ClassSafe2.String())
	assert.Equal(t, "class(?)", memptr.Class(9).String())
}
