package memptr

// Class is the safety classification of one decomposition rewrite.
type Class uint8

const (
	// ClassNever forbids the rewrite; the node stays a terminal term.
	ClassNever Class = iota
	// ClassSafe1 marks rewrites that are exact for all operand values.
	ClassSafe1
	// ClassSafe2 marks rewrites whose error, if any, is a multiple of
	// elem * 2^32 for the accessed array's element size. They are only
	// applied under the array-access conditions checked by the parser.
	ClassSafe2
)

var classNames = [...]string{
	ClassNever: "never",
	ClassSafe1: "safe1",
	ClassSafe2: "safe2",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "class(?)"
}

// OpWidth keys the policy table: one operator kind at one operand width.
type OpWidth struct {
	Kind  Kind
	Width Width
}

// Policy is the decomposition safety table the parser consults. It is plain
// data so that the table stays explicit and reviewable instead of being
// scattered through parser branches; internal/policy compiles the canonical
// table from a CUE artifact.
//
// Policies are immutable once built. The zero value classifies everything
// ClassNever, which degrades every parse to the trivial form: conservative,
// never wrong.
type Policy struct {
	// AddressWidth is the pointer width of the target. At Width32 every
	// decomposable rewrite is exact: the decomposed arithmetic is
	// evaluated at the same 32 bits the hardware address uses, so
	// wraparound cancels out of any distance.
	AddressWidth Width

	// Classes maps operator/width pairs to their safety class. Pairs not
	// present are ClassNever.
	Classes map[OpWidth]Class
}

// ClassOf returns the safety class for rewriting a node of kind k whose
// value has width w.
func (p Policy) ClassOf(k Kind, w Width) Class {
	if p.AddressWidth == Width32 {
		return ClassSafe1
	}
	return p.Classes[OpWidth{Kind: k, Width: w}]
}
