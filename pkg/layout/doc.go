// Package layout assigns 2D coordinates to the nodes of an AVL tree.
//
// # Overview
//
// Layout is two traversals over the tree:
//
//  1. A post-order pass writes each node's subtree width into [avl.Node.Width].
//  2. A pre-order pass places the root at the origin and every child one
//     level gap below its parent, pushed sideways by an amount proportional
//     to its sibling's width.
//
// The result is a [Positions] map from key to [Point]. It carries no edges;
// renderers walk the tree (or the serialized form in package graph) for those.
//
// # Strategies
//
// [WidthBySize] is the default. Width is the subtree's node count, and a
// child sits (siblingWidth+1) * HorizontalUnit / 2 away from its parent.
// Every subtree then fits inside the span x ± Width*HorizontalUnit/2 of its
// root, and the spans of two nodes that are not ancestor and descendant never
// intersect.
//
// [WidthByDepth] uses the subtree height as width and offsets a child by
// siblingWidth * HorizontalUnit with no centering. It produces narrower
// drawings for balanced trees but does not guarantee separation.
//
// # Usage
//
//	t := avl.New[int]()
//	t.InsertAll(30, 20, 10)
//	pos := layout.Compute(t.Root(), 400, 30)
//	// pos[20] == Point{400, 30}, pos[10] == Point{360, 110}, pos[30] == Point{440, 110}
//
// Layout is not incremental: run it again after every insertion.
package layout
