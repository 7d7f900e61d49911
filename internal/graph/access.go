package graph

import "github.com/roach88/memptr/internal/memptr"

// Access describes one load or store against an address held in the graph.
// ElemSize zero means the access is not a statically typed array access.
type Access struct {
	Addr     *Node
	Bytes    int32
	ElemSize int32
	Guarded  bool
}

// Address implements memptr.Access.
func (a Access) Address() memptr.Node {
	if a.Addr == nil {
		return nil
	}
	return a.Addr
}

// Size implements memptr.Access.
func (a Access) Size() int32 { return a.Bytes }

// ArrayElemSize implements memptr.Access.
func (a Access) ArrayElemSize() (int32, bool) {
	return a.ElemSize, a.ElemSize > 0
}

// RangeChecked implements memptr.Access.
func (a Access) RangeChecked() bool { return a.Guarded }
