// Package checked provides overflow-checked 32-bit signed arithmetic.
//
// Address analysis must never reason with silently wrapped values: a wrapped
// constant or scale would let the analysis claim a pointer distance that does
// not hold at runtime. Int therefore carries an explicit invalid state
// ("NaN") instead of wrapping. Any operation whose mathematical result does
// not fit in 32 bits, or that touches an already-invalid operand, yields NaN,
// and NaN poisons everything computed from it. Consumers check IsNaN at the
// points where a poisoned value must degrade the analysis, never mid-chain.
package checked

import "strconv"

// Int is a 32-bit signed integer with an explicit invalid state.
//
// The zero value is a valid 0. Int is immutable; all operations return a new
// value.
type Int struct {
	nan bool
	v   int32
}

// New returns the Int for v, or NaN if v does not fit in 32 bits.
func New(v int64) Int {
	if v < -(1<<31) || v > (1<<31)-1 {
		return NaN()
	}
	return Int{v: int32(v)}
}

// NaN returns the invalid value.
func NaN() Int {
	return Int{nan: true}
}

// IsNaN reports whether a is invalid.
func (a Int) IsNaN() bool {
	return a.nan
}

// Value returns the 32-bit value. It panics on NaN: callers must gate on
// IsNaN first, since an invalid value has no numeric interpretation.
func (a Int) Value() int32 {
	if a.nan {
		panic("checked: Value of NaN")
	}
	return a.v
}

// IsZero reports whether a is a valid zero. NaN is not zero.
func (a Int) IsZero() bool {
	return !a.nan && a.v == 0
}

// IsOne reports whether a is a valid one.
func (a Int) IsOne() bool {
	return !a.nan && a.v == 1
}

// Eq reports whether a and b are equal valid values. If either side is NaN
// the result is false, including NaN against itself.
func (a Int) Eq(b Int) bool {
	if a.nan || b.nan {
		return false
	}
	return a.v == b.v
}

// Add returns a + b, or NaN on overflow or invalid operands.
func (a Int) Add(b Int) Int {
	if a.nan || b.nan {
		return NaN()
	}
	return New(int64(a.v) + int64(b.v))
}

// Sub returns a - b, or NaN on overflow or invalid operands.
func (a Int) Sub(b Int) Int {
	if a.nan || b.nan {
		return NaN()
	}
	return New(int64(a.v) - int64(b.v))
}

// Mul returns a * b, or NaN on overflow or invalid operands.
func (a Int) Mul(b Int) Int {
	if a.nan || b.nan {
		return NaN()
	}
	return New(int64(a.v) * int64(b.v))
}

// Neg returns -a. Negating the most negative value overflows and yields NaN.
func (a Int) Neg() Int {
	if a.nan {
		return NaN()
	}
	return New(-int64(a.v))
}

// Lsh returns a << shift. The shift count must be a valid value in [0, 31];
// anything else yields NaN, as does overflow of the shifted result.
func (a Int) Lsh(shift Int) Int {
	if a.nan || shift.nan {
		return NaN()
	}
	if shift.v < 0 || shift.v > 31 {
		return NaN()
	}
	return New(int64(a.v) << uint(shift.v))
}

// Abs returns the absolute value, or NaN if it is unrepresentable (the most
// negative value) or a is invalid.
func (a Int) Abs() Int {
	if a.nan {
		return NaN()
	}
	if a.v < 0 {
		return a.Neg()
	}
	return a
}

// IsMultipleOf reports whether a is an integer multiple of b. False if either
// operand is NaN. Zero divides only zero.
func (a Int) IsMultipleOf(b Int) bool {
	if a.nan || b.nan {
		return false
	}
	if b.v == 0 {
		return a.v == 0
	}
	return int64(a.v)%int64(b.v) == 0
}

// String returns the decimal value, or "NaN".
func (a Int) String() string {
	if a.nan {
		return "NaN"
	}
	return strconv.FormatInt(int64(a.v), 10)
}
