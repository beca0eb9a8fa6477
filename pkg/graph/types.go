package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatText = "txt"
)

// Child sides, matching avl.Side.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// =============================================================================
// Node - Positioned Tree Node
// =============================================================================

// Node is a tree node with its computed position.
type Node struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`

	// Height is the AVL height; leaves are 1.
	Height  int `json:"height" bson:"height"`
	// Width is the subtree width the layout strategy measured.
	Width   int `json:"width" bson:"width"`
	// Balance is height(left) - height(right).
	Balance int `json:"balance,omitempty" bson:"balance,omitempty"`
	// Depth counts edges from the root.
	Depth   int `json:"depth,omitempty" bson:"depth,omitempty"`
}

// IsRoot reports whether n sits at depth 0.
func (n *Node) IsRoot() bool { return n.Depth == 0 }

// =============================================================================
// Edge - Parent to Child
// =============================================================================

// Edge connects a parent to one of its children.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Side string `json:"side" bson:"side"`
}

// Children holds the IDs of a node's children; empty means absent.
type Children struct {
	Left, Right string
}

// =============================================================================
// Bounds
// =============================================================================

// Bounds is the box spanned by the node centers.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }
