package memptr

import "strconv"

// ID identifies a node in the host expression graph. Hosts assign IDs in
// creation order, which gives the analysis a stable total order over terms;
// the analysis never interprets an ID beyond comparing it.
type ID int32

// Width is the integer width of a node's value in bits.
type Width uint8

// Node widths. Address arithmetic is either pointer-width (64) or narrow
// index arithmetic (32) awaiting a widening conversion.
const (
	Width32 Width = 32
	Width64 Width = 64
)

// Kind classifies a node by the only property the analysis cares about:
// whether and how it can be rewritten into summands.
type Kind uint8

const (
	// KindOpaque is any node the analysis must not look through. Opaque
	// nodes become terminal terms with their current scale.
	KindOpaque Kind = iota

	// KindLiteral is a compile-time integer constant.
	KindLiteral

	// KindAdd and KindSub are two-operand integer addition/subtraction.
	KindAdd
	KindSub

	// KindMul is two-operand multiplication; it decomposes only when the
	// second operand is a literal.
	KindMul

	// KindShiftL is a left shift; it decomposes only when the shift count
	// is a literal.
	KindShiftL

	// KindWiden is the 32-to-64-bit sign-extending conversion. The
	// conversion itself is value-preserving; the safety question concerns
	// the narrow arithmetic beneath it.
	KindWiden
)

var kindNames = [...]string{
	KindOpaque:  "opaque",
	KindLiteral: "literal",
	KindAdd:     "add",
	KindSub:     "sub",
	KindMul:     "mul",
	KindShiftL:  "shiftl",
	KindWiden:   "widen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is the read-only view of one host expression node. It is the entire
// contract between the analysis and the host graph: the analysis compares
// IDs, switches on kinds, and walks operands, and must never mutate or
// retain nodes beyond the current query.
//
// Operand is only called on nodes whose Kind has operands (add, sub, mul,
// shiftl with two; widen with one). Literal is only called on KindLiteral
// nodes.
type Node interface {
	// ID returns the node's stable identity.
	ID() ID
	// Kind returns the node's operator classification.
	Kind() Kind
	// Width returns the integer width of the node's value.
	Width() Width
	// NumOperands returns the number of value operands.
	NumOperands() int
	// Operand returns the i-th value operand.
	Operand(i int) Node
	// Literal returns the constant value of a KindLiteral node.
	Literal() int64
	// String renders the node for diagnostics.
	String() string
}

// Access describes one load or store whose address the analysis inspects.
type Access interface {
	// Address returns the pointer expression of the access.
	Address() Node
	// Size returns the access width in bytes. Always positive.
	Size() int32
	// ArrayElemSize returns the element byte size when the access is a
	// statically typed array access, with ok false otherwise. Safe2
	// rewrites are only admissible when it is known.
	ArrayElemSize() (elem int32, ok bool)
	// RangeChecked reports whether the host guarantees the index
	// arithmetic feeding this access stays in bounds (and therefore
	// cannot overflow).
	RangeChecked() bool
}
