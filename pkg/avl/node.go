package avl

import "cmp"

// Node is one key in the tree.
//
// Left and Right are exported so renderers can walk the structure; callers
// must treat them as read-only. Only the owning [Tree] relinks nodes.
type Node[K cmp.Ordered] struct {
	Key         K
	Left, Right *Node[K]

	// Height is 1 for a leaf; a nil child counts as 0.
	Height int

	// Width is the subtree width written by the last layout pass.
	Width int
}

func newNode[K cmp.Ordered](key K) *Node[K] {
	return &Node[K]{Key: key, Height: 1, Width: 1}
}

// HeightOf returns n.Height, or 0 for a nil node.
func HeightOf[K cmp.Ordered](n *Node[K]) int {
	if n == nil {
		return 0
	}
	return n.Height
}

// WidthOf returns n.Width, or 0 for a nil node.
func WidthOf[K cmp.Ordered](n *Node[K]) int {
	if n == nil {
		return 0
	}
	return n.Width
}

// BalanceFactor returns Height(Left) - Height(Right).
func (n *Node[K]) BalanceFactor() int {
	return HeightOf(n.Left) - HeightOf(n.Right)
}

// IsLeaf reports whether n has no children.
func (n *Node[K]) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *Node[K]) updateHeight() {
	n.Height = 1 + max(HeightOf(n.Left), HeightOf(n.Right))
}
