// Package memptr decides, at compile time, whether two memory accesses touch
// adjacent or identical addresses.
//
// The analysis rewrites a pointer-producing expression into the canonical
// decomposed form
//
//	pointer = con + sum(scale_i * term_i)
//
// where con and every scale are compile-time constants and every term is a
// symbolic value the parser chose not to look through. Two pointers whose
// forms carry identical summands differ exactly by the difference of their
// constants, which gives the optimizer a provable byte distance without
// knowing any runtime value.
//
// SOUNDNESS:
//
// The analysis may always answer Unknown, but an Always(distance) claim must
// hold for every execution, including executions where the original address
// arithmetic overflows. Every rewrite the parser applies therefore falls in
// one of two classes:
//
//   - safe1: exact for all operand values. Pointer-width addition,
//     subtraction, multiplication and shift by a constant, widening a 32-bit
//     value to 64 bits, and folding literals are all exact: no 64-bit
//     overflow can occur for operands derived from a valid address.
//   - safe2: exact except for a possible error that is an integer multiple
//     of elem * 2^32, where elem is the byte size of the accessed array's
//     element type. This covers 32-bit index arithmetic seen through a
//     widening conversion: the narrow computation may wrap, the decomposed
//     form computes without wrapping, and the two can disagree only by a
//     multiple of 2^32 (times the scale, kept a multiple of elem).
//
// Why safe2 is tolerable: suppose two decomposed forms have identical summands
// and constants con1, con2 with abs(con1-con2) < 2^31, and both accesses lie
// in bounds of the same array. If the decomposed difference disagreed with
// the real pointer difference, the discrepancy would be a nonzero multiple
// of elem * 2^32, so the real distance would exceed
// elem * 2^32 - 2^31 >= elem * 2^31, which is larger than any in-bounds
// array (at most elem * 2^31 - 1 bytes of elements). At least one access
// would be out of bounds, contradicting the assumption. Hence equal summands
// plus an in-range constant gap imply the real distance equals con2 - con1.
//
// The parser only applies a safe2 rewrite when the access is a statically
// typed array access and either the host range-checks the index arithmetic
// (so no wrap can happen at all) or the running scale stays a multiple of
// the element size (so the lemma's error bound applies).
//
// DEGRADATION:
//
// Everything that cannot be proven degrades, it never errors. Overflow in
// constant or scale arithmetic poisons the value (checked.Int NaN); a
// poisoned constant, a poisoned merged scale, more than MaxSummands distinct
// terminal terms, or an exhausted parse budget all collapse the result to
// the trivial form {con 0, 1 * pointer}. A trivial form still compares: two
// trivial forms over the same pointer are identical. Precondition violations
// that indicate a defect in the caller (nil terms, zero scales, an Always
// verdict with abs(distance) >= 2^30) panic instead, since they void the
// soundness argument rather than describe a runtime condition.
//
// The package is an in-process analysis: single-threaded, no persisted
// state, value types throughout. Forms are immutable after construction and
// comparable only against forms parsed from the same expression graph.
package memptr
