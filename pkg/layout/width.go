package layout

import (
	"cmp"

	"github.com/matzehuels/avlviz/pkg/avl"
)

// ComputeSubtreeWidths writes the node count of every subtree into its root's
// Width, bottom-up, and returns the count for root. A nil root has width 0.
func ComputeSubtreeWidths[K cmp.Ordered](root *avl.Node[K]) int {
	if root == nil {
		return 0
	}
	left := ComputeSubtreeWidths(root.Left)
	right := ComputeSubtreeWidths(root.Right)

	root.Width = left + right + 1
	return root.Width
}

// ComputeSubtreeDepths writes the depth of every subtree (one more than the
// deeper child) into its root's Width and returns the value for root.
func ComputeSubtreeDepths[K cmp.Ordered](root *avl.Node[K]) int {
	if root == nil {
		return 0
	}
	left := ComputeSubtreeDepths(root.Left)
	right := ComputeSubtreeDepths(root.Right)

	root.Width = max(left, right) + 1
	return root.Width
}

// ComputeWidths runs the width pass that belongs to s.
func ComputeWidths[K cmp.Ordered](root *avl.Node[K], s Strategy) int {
	if s == WidthByDepth {
		return ComputeSubtreeDepths(root)
	}
	return ComputeSubtreeWidths(root)
}
