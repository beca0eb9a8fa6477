package avl

import "cmp"

// Tree is an insert-only AVL tree.
//
// The zero Tree is not usable; create one with [New]. A Tree should not be
// copied after first use.
type Tree[K cmp.Ordered] struct {
	root  *Node[K]
	size  int
	stats Stats
	hook  func(Rotation[K])
}

// Stats counts what insertions did to a tree over its lifetime.
type Stats struct {
	Inserted   int    // keys that created a node
	Duplicates int    // keys that were already present
	Rebalances [4]int // indexed by Case
}

// Rotations returns the number of single rotations performed.
// Double cases count twice.
func (s Stats) Rotations() int {
	var n int
	for c, count := range s.Rebalances {
		if Case(c).Double() {
			n += 2 * count
		} else {
			n += count
		}
	}
	return n
}

// Option configures a Tree.
type Option[K cmp.Ordered] func(*Tree[K])

// WithRotationHook registers fn to be called once for every rebalance,
// after the subtree has been restructured.
func WithRotationHook[K cmp.Ordered](fn func(Rotation[K])) Option[K] {
	return func(t *Tree[K]) { t.hook = fn }
}

// New returns an empty tree.
func New[K cmp.Ordered](opts ...Option[K]) *Tree[K] {
	t := &Tree[K]{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert adds key to the tree and rebalances it.
// It reports whether a node was created; inserting a key that is already
// present leaves the tree unchanged and returns false.
func (t *Tree[K]) Insert(key K) bool {
	before := t.size
	t.root = t.insert(t.root, key)
	if t.size == before {
		t.stats.Duplicates++
		return false
	}
	t.stats.Inserted++
	return true
}

// InsertAll inserts keys in order and returns how many were new.
func (t *Tree[K]) InsertAll(keys ...K) int {
	var n int
	for _, k := range keys {
		if t.Insert(k) {
			n++
		}
	}
	return n
}

func (t *Tree[K]) insert(n *Node[K], key K) *Node[K] {
	if n == nil {
		t.size++
		return newNode(key)
	}

	switch {
	case key < n.Key:
		n.Left = t.insert(n.Left, key)
	case key > n.Key:
		n.Right = t.insert(n.Right, key)
	default:
		return n
	}

	n.updateHeight()
	balance := n.BalanceFactor()

	if balance > 1 && key < n.Left.Key {
		return t.rebalanced(LeftLeft, n, key, rotateRight(n))
	}

	if balance < -1 && key > n.Right.Key {
		return t.rebalanced(RightRight, n, key, rotateLeft(n))
	}

	if balance > 1 && key > n.Left.Key {
		n.Left = rotateLeft(n.Left)
		return t.rebalanced(LeftRight, n, key, rotateRight(n))
	}

	if balance < -1 && key < n.Right.Key {
		n.Right = rotateRight(n.Right)
		return t.rebalanced(RightLeft, n, key, rotateLeft(n))
	}

	return n
}

// rebalanced records a repair of pivot and passes the new subtree root through.
func (t *Tree[K]) rebalanced(c Case, pivot *Node[K], key K, root *Node[K]) *Node[K] {
	t.stats.Rebalances[c]++
	if t.hook != nil {
		t.hook(Rotation[K]{Case: c, Pivot: pivot.Key, NewRoot: root.Key, Inserted: key})
	}
	return root
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree[K]) Root() *Node[K] { return t.root }

// Len returns the number of keys in the tree.
func (t *Tree[K]) Len() int { return t.size }

// Height returns the height of the root, 0 for an empty tree.
func (t *Tree[K]) Height() int { return HeightOf(t.root) }

// Stats returns the insertion counters accumulated so far.
func (t *Tree[K]) Stats() Stats { return t.stats }

// Contains reports whether key is in the tree.
func (t *Tree[K]) Contains(key K) bool {
	n := t.root
	for n != nil {
		switch {
		case key < n.Key:
			n = n.Left
		case key > n.Key:
			n = n.Right
		default:
			return true
		}
	}
	return false
}

// Min returns the smallest key. ok is false for an empty tree.
func (t *Tree[K]) Min() (k K, ok bool) {
	n := t.root
	if n == nil {
		return k, false
	}
	for n.Left != nil {
		n = n.Left
	}
	return n.Key, true
}

// Max returns the largest key. ok is false for an empty tree.
func (t *Tree[K]) Max() (k K, ok bool) {
	n := t.root
	if n == nil {
		return k, false
	}
	for n.Right != nil {
		n = n.Right
	}
	return n.Key, true
}
