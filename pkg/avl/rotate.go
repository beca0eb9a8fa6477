package avl

import "cmp"

// Case identifies which of the four AVL imbalance shapes was repaired.
type Case int

const (
	LeftLeft Case = iota
	RightRight
	LeftRight
	RightLeft
)

var caseNames = [...]string{
	LeftLeft:   "left-left",
	RightRight: "right-right",
	LeftRight:  "left-right",
	RightLeft:  "right-left",
}

func (c Case) String() string {
	if c < 0 || int(c) >= len(caseNames) {
		return "unknown"
	}
	return caseNames[c]
}

// Double reports whether repairing c takes two single rotations.
func (c Case) Double() bool {
	return c == LeftRight || c == RightLeft
}

// Rotation describes one rebalance performed during an insertion.
type Rotation[K any] struct {
	Case Case
	// Pivot is the key of the node that was found unbalanced.
	Pivot K
	// NewRoot is the key now at the top of the rebalanced subtree.
	NewRoot K
	// Inserted is the key whose insertion triggered the rebalance.
	Inserted K
}

// rotateRight rotates n to the right and returns
// the node that now occupies its old position.
//
//	    n            l
//	   / \          / \
//	  l   o   ->   k   n
//	 / \              / \
//	k   m            m   o
//
// The demoted node's height is recomputed before the new root's.
func rotateRight[K cmp.Ordered](n *Node[K]) *Node[K] {
	l := n.Left
	m := l.Right

	l.Right = n
	n.Left = m

	n.updateHeight()
	l.updateHeight()

	return l
}

// rotateLeft rotates n to the left and returns
// the node that now occupies its old position.
//
//	  n              p
//	 / \            / \
//	m   p    ->    n   q
//	   / \        / \
//	  o   q      m   o
func rotateLeft[K cmp.Ordered](n *Node[K]) *Node[K] {
	p := n.Right
	o := p.Left

	p.Left = n
	n.Right = o

	n.updateHeight()
	p.updateHeight()

	return p
}
