package memptr

// Pointer binds one memory access to the decomposed form of its address,
// computed once at construction. It is the entry point the optimizer uses:
// build a Pointer per candidate access, then ask adjacency questions.
type Pointer struct {
	access Access
	form   Form
	trace  *Trace
}

// NewPointer decomposes the address of access under pol. The access must be
// non-nil with a positive byte size; violations are caller defects and
// panic. A nil trace disables diagnostics.
func NewPointer(access Access, pol Policy, trace *Trace) Pointer {
	if access == nil {
		panic("memptr: access must not be nil")
	}
	if access.Size() <= 0 {
		panic("memptr: access size must be positive")
	}
	form := Decompose(access, pol)
	trace.parsef("decompose: %s = %s\n", access.Address(), form)
	return Pointer{access: access, form: form, trace: trace}
}

// Access returns the bound memory access.
func (p Pointer) Access() Access {
	return p.access
}

// Form returns the decomposed form of the access address.
func (p Pointer) Form() Form {
	return p.form
}

// AliasingWith runs the comparator over the decomposed forms of p and
// other: Always(d) proves other's address sits exactly d bytes past p's in
// every execution, Unknown proves nothing.
func (p Pointer) AliasingWith(other Pointer) Verdict {
	verdict := p.form.AliasingWith(other.form)
	p.trace.aliasingf("aliasing: %s vs %s = %s\n", p.form, other.form, verdict)
	return verdict
}

// IsAdjacentToAndBefore reports whether p ends exactly where other begins:
// the comparator proves a constant distance from p to other equal to p's
// own byte size. An Unknown verdict reports false, which is the sound
// answer for the store-merging decisions built on this predicate.
func (p Pointer) IsAdjacentToAndBefore(other Pointer) bool {
	verdict := p.AliasingWith(other)
	adjacent := verdict.IsAlwaysAt(p.access.Size())
	p.trace.adjacencyf("adjacency: before=%v size=%d verdict=%s\n", adjacent, p.access.Size(), verdict)
	return adjacent
}
