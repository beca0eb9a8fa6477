package layout

import (
	"cmp"

	"github.com/matzehuels/avlviz/pkg/avl"
)

// Point is a position in layout units. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps every key in a tree to its position.
type Positions[K cmp.Ordered] map[K]Point

// Compute runs both layout passes and returns the position of every node,
// with the root at (originX, originY).
func Compute[K cmp.Ordered](root *avl.Node[K], originX, originY float64, opts ...Option) Positions[K] {
	cfg := NewConfig(opts...)
	ComputeWidths(root, cfg.Strategy)
	return place(root, originX, originY, cfg)
}

// ComputePositions runs only the pre-order pass. It relies on the Width
// values left by a preceding [ComputeWidths] call for the same strategy.
func ComputePositions[K cmp.Ordered](root *avl.Node[K], originX, originY float64, opts ...Option) Positions[K] {
	return place(root, originX, originY, NewConfig(opts...))
}

func place[K cmp.Ordered](root *avl.Node[K], originX, originY float64, cfg Config) Positions[K] {
	pos := make(Positions[K])
	if root != nil {
		placeNode(root, Point{X: originX, Y: originY}, cfg, pos)
	}
	return pos
}

func placeNode[K cmp.Ordered](n *avl.Node[K], at Point, cfg Config, pos Positions[K]) {
	pos[n.Key] = at

	leftShift, rightShift := childOffsets(n, cfg)
	y := at.Y + cfg.LevelGap

	if n.Left != nil {
		placeNode(n.Left, Point{X: at.X - leftShift, Y: y}, cfg, pos)
	}
	if n.Right != nil {
		placeNode(n.Right, Point{X: at.X + rightShift, Y: y}, cfg, pos)
	}
}

// childOffsets returns how far left the left child and how far right the
// right child sit from n. Each child is pushed by its sibling's width.
func childOffsets[K cmp.Ordered](n *avl.Node[K], cfg Config) (left, right float64) {
	lw := float64(avl.WidthOf(n.Left))
	rw := float64(avl.WidthOf(n.Right))

	if cfg.Strategy == WidthByDepth {
		return rw * cfg.HorizontalUnit, lw * cfg.HorizontalUnit
	}
	return (rw + 1) * cfg.HorizontalUnit / 2, (lw + 1) * cfg.HorizontalUnit / 2
}
