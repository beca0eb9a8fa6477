package layout

import (
	"cmp"
	"math"

	"github.com/matzehuels/avlviz/pkg/avl"
)

// Span returns the horizontal interval reserved for n's subtree when n sits
// at p: p.X ± n.Width*unit/2. Width must be fresh from a layout pass.
func Span[K cmp.Ordered](n *avl.Node[K], p Point, unit float64) (lo, hi float64) {
	half := float64(n.Width) * unit / 2
	return p.X - half, p.X + half
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Pad grows the box by m on every side.
func (b Bounds) Pad(m float64) Bounds {
	return Bounds{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

// BoundsOf returns the smallest box containing every point. An empty map
// yields the zero Bounds.
func BoundsOf[K cmp.Ordered](pos Positions[K]) Bounds {
	if len(pos) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range pos {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}
