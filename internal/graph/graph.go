// Package graph is a small host-side expression graph for driving the
// analysis: unit tests, the conformance harness, and the inspection CLI all
// build address expressions through it. A real host would adapt its own IR
// to the node contract instead; nothing in the analysis depends on this
// package.
package graph

import (
	"strconv"
	"strings"

	"github.com/roach88/memptr/internal/memptr"
)

// Graph allocates nodes with creation-ordered IDs. It is not safe for
// concurrent use; the analysis it feeds is single-threaded anyway.
type Graph struct {
	nextID memptr.ID
}

// New returns an empty graph. IDs start at 1 so the zero ID stays free for
// catching uninitialized handles.
func New() *Graph {
	return &Graph{nextID: 1}
}

// Node is one expression node. Nodes are immutable after construction and
// only valid within the graph that allocated them.
type Node struct {
	id    memptr.ID
	kind  memptr.Kind
	width memptr.Width
	args  []*Node
	lit   int64
	name  string
}

func (g *Graph) alloc(kind memptr.Kind, width memptr.Width, args ...*Node) *Node {
	n := &Node{id: g.nextID, kind: kind, width: width, args: args}
	g.nextID++
	return n
}

// Opaque adds a leaf the analysis never looks inside: a parameter, a field
// load, an array base. The name is for diagnostics only.
func (g *Graph) Opaque(name string, w memptr.Width) *Node {
	if name == "" {
		panic("graph: opaque node needs a name")
	}
	n := g.alloc(memptr.KindOpaque, w)
	n.name = name
	return n
}

// Literal adds a compile-time integer constant.
func (g *Graph) Literal(v int64, w memptr.Width) *Node {
	n := g.alloc(memptr.KindLiteral, w)
	n.lit = v
	return n
}

// Add returns a + b. Operands must share a width.
func (g *Graph) Add(a, b *Node) *Node {
	return g.binary(memptr.KindAdd, a, b)
}

// Sub returns a - b. Operands must share a width.
func (g *Graph) Sub(a, b *Node) *Node {
	return g.binary(memptr.KindSub, a, b)
}

// Mul returns a * b. Operands must share a width.
func (g *Graph) Mul(a, b *Node) *Node {
	return g.binary(memptr.KindMul, a, b)
}

// ShiftL returns a << count. Shift counts are 32-bit values regardless of
// the shifted width.
func (g *Graph) ShiftL(a, count *Node) *Node {
	if a == nil || count == nil {
		panic("graph: nil operand")
	}
	if count.width != memptr.Width32 {
		panic("graph: shift count must be 32-bit")
	}
	return g.alloc(memptr.KindShiftL, a.width, a, count)
}

// Widen returns the sign extension of a 32-bit value to 64 bits.
func (g *Graph) Widen(a *Node) *Node {
	if a == nil {
		panic("graph: nil operand")
	}
	if a.width != memptr.Width32 {
		panic("graph: widen takes a 32-bit operand")
	}
	return g.alloc(memptr.KindWiden, memptr.Width64, a)
}

func (g *Graph) binary(kind memptr.Kind, a, b *Node) *Node {
	if a == nil || b == nil {
		panic("graph: nil operand")
	}
	if a.width != b.width {
		panic("graph: operand width mismatch")
	}
	return g.alloc(kind, a.width, a, b)
}

// ID implements memptr.Node.
func (n *Node) ID() memptr.ID { return n.id }

// Kind implements memptr.Node.
func (n *Node) Kind() memptr.Kind { return n.kind }

// Width implements memptr.Node.
func (n *Node) Width() memptr.Width { return n.width }

// NumOperands implements memptr.Node.
func (n *Node) NumOperands() int { return len(n.args) }

// Operand implements memptr.Node.
func (n *Node) Operand(i int) memptr.Node { return n.args[i] }

// Literal implements memptr.Node. It panics on non-literal nodes.
func (n *Node) Literal() int64 {
	if n.kind != memptr.KindLiteral {
		panic("graph: Literal of non-literal node")
	}
	return n.lit
}

// String renders the node one operand level deep, which keeps trace lines
// readable without dumping whole subtrees.
func (n *Node) String() string {
	switch n.kind {
	case memptr.KindOpaque:
		return n.name
	case memptr.KindLiteral:
		return strconv.FormatInt(n.lit, 10)
	default:
		parts := make([]string, len(n.args))
		for i, a := range n.args {
			parts[i] = a.short()
		}
		return n.kind.String() + "(" + strings.Join(parts, ", ") + ")"
	}
}

func (n *Node) short() string {
	switch n.kind {
	case memptr.KindOpaque:
		return n.name
	case memptr.KindLiteral:
		return strconv.FormatInt(n.lit, 10)
	default:
		return n.kind.String() + "#" + strconv.Itoa(int(n.id))
	}
}
