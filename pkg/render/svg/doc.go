// Package svg draws a [graph.Layout] as a standalone SVG document.
//
// Nodes are circles centered on their layout coordinates with the key as
// label. Connectors run from the parent's circle boundary to the child's
// along the line between the two centers, so they never cross a circle.
// The viewBox is the layout bounds padded by the radius plus a margin;
// coordinates are emitted unchanged.
//
//	out := svg.Render(l, svg.WithRadius(20), svg.WithBalance())
//
// [graph.Layout]: github.com/matzehuels/avlviz/pkg/graph.Layout
package svg
