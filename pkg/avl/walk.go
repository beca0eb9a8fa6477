package avl

import (
	"cmp"
	"iter"
)

// Side tells which child slot of its parent a node occupies.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Edge is a parent/child link. The layout output carries no structure, so
// renderers that draw connectors use these.
type Edge[K cmp.Ordered] struct {
	Parent, Child K
	Side          Side
}

// All yields the keys in ascending order.
func (t *Tree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		inOrder(t.root, func(n *Node[K]) bool { return yield(n.Key) })
	}
}

// Keys returns the keys in ascending order.
func (t *Tree[K]) Keys() []K {
	keys := make([]K, 0, t.size)
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

// PreOrder yields nodes parent first, then the left and right subtrees.
func (t *Tree[K]) PreOrder() iter.Seq[*Node[K]] {
	return func(yield func(*Node[K]) bool) {
		preOrder(t.root, yield)
	}
}

// Edges returns every parent/child link in pre-order.
func (t *Tree[K]) Edges() []Edge[K] {
	if t.size < 2 {
		return nil
	}
	edges := make([]Edge[K], 0, t.size-1)
	for n := range t.PreOrder() {
		if n.Left != nil {
			edges = append(edges, Edge[K]{Parent: n.Key, Child: n.Left.Key, Side: SideLeft})
		}
		if n.Right != nil {
			edges = append(edges, Edge[K]{Parent: n.Key, Child: n.Right.Key, Side: SideRight})
		}
	}
	return edges
}

func inOrder[K cmp.Ordered](n *Node[K], visit func(*Node[K]) bool) bool {
	if n == nil {
		return true
	}
	return inOrder(n.Left, visit) && visit(n) && inOrder(n.Right, visit)
}

func preOrder[K cmp.Ordered](n *Node[K], visit func(*Node[K]) bool) bool {
	if n == nil {
		return true
	}
	return visit(n) && preOrder(n.Left, visit) && preOrder(n.Right, visit)
}
