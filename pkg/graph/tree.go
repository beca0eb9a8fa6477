package graph

import (
	"cmp"
	"fmt"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/layout"
)

// =============================================================================
// Tree → Layout Conversion
// =============================================================================

// FromTree lays out t with cfg, rooted at origin, and converts the result to
// its serialization format. It rewrites the Width scratch field of every node.
func FromTree[K cmp.Ordered](t *avl.Tree[K], origin layout.Point, cfg layout.Config) Layout {
	pos := layout.Compute(t.Root(), origin.X, origin.Y, layout.WithConfig(cfg))

	out := Layout{
		Strategy:   string(cfg.Strategy),
		Unit:       cfg.HorizontalUnit,
		LevelGap:   cfg.LevelGap,
		OriginX:    origin.X,
		OriginY:    origin.Y,
		Size:       t.Len(),
		TreeHeight: t.Height(),
		Rotations:  t.Stats().Rotations(),
		Nodes:      make([]Node, 0, t.Len()),
		Edges:      make([]Edge, 0, max(t.Len()-1, 0)),
	}
	if t.Root() == nil {
		return out
	}

	out.Root = ID(t.Root().Key)
	b := layout.BoundsOf(pos)
	out.Bounds = Bounds{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}

	appendNode(&out, t.Root(), 0, pos)
	for _, e := range t.Edges() {
		out.Edges = append(out.Edges, Edge{From: ID(e.Parent), To: ID(e.Child), Side: string(e.Side)})
	}
	return out
}

// ID formats a key as a node ID.
func ID[K cmp.Ordered](key K) string { return fmt.Sprint(key) }

func appendNode[K cmp.Ordered](out *Layout, n *avl.Node[K], depth int, pos layout.Positions[K]) {
	if n == nil {
		return
	}
	p := pos[n.Key]
	out.Nodes = append(out.Nodes, Node{
		ID:      ID(n.Key),
		X:       p.X,
		Y:       p.Y,
		Height:  n.Height,
		Width:   n.Width,
		Balance: n.BalanceFactor(),
		Depth:   depth,
	})
	appendNode(out, n.Left, depth+1, pos)
	appendNode(out, n.Right, depth+1, pos)
}
