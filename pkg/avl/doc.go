// Package avl implements an insert-only AVL tree over ordered keys.
//
// # Overview
//
// A [Tree] owns a strict hierarchy of [Node] values. Every node is owned by
// exactly one parent (or by the tree, for the root) and nodes are never
// shared. After every call to [Tree.Insert] the tree satisfies:
//
//   - BST ordering: keys in a node's left subtree are smaller, keys in its
//     right subtree are larger.
//   - AVL balance: Height(Left) - Height(Right) is in {-1, 0, 1}.
//   - Height correctness: Height == 1 + max(Height(Left), Height(Right)).
//   - Key uniqueness: inserting a present key is a silent no-op.
//
// # Rebalancing
//
// Insertion descends recursively to an empty slot and restores balance on the
// way back up. Each unbalanced ancestor picks one of four cases by comparing
// the inserted key with the key of its heavy child:
//
//	left-left    key < left.Key   rotate right
//	right-right  key > right.Key  rotate left
//	left-right   key > left.Key   rotate left child left, then rotate right
//	right-left   key < right.Key  rotate right child right, then rotate left
//
// The textbook formulation chooses between single and double rotations from
// the heavy child's balance factor. For insertion the two agree, because the
// subtree that grew is exactly the one holding the new key; [Tree.Check]
// verifies the invariants independently of either rule.
//
// # Observing rotations
//
// Pass [WithRotationHook] to [New] to be told about every rebalance:
//
//	t := avl.New(avl.WithRotationHook(func(r avl.Rotation[int]) {
//	    logger.Debug("rebalanced", "case", r.Case, "pivot", r.Pivot)
//	}))
//
// # Layout
//
// [Node.Width] is scratch space for the layout engine in package layout. It is
// only meaningful right after a layout pass and is not maintained by Insert.
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Callers that share a tree across
// goroutines must serialize access themselves.
package avl
