// Package nodelink renders tree layouts as Graphviz diagrams.
//
// # Overview
//
// Where package svg draws nodes at the coordinates computed by package
// layout, this package hands the structure to Graphviz and lets dot place
// the nodes. It is useful for comparing the two layouts and for exporting
// DOT source to other tools.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Left and Right
//
// dot has no notion of a left or right child. [ToDOT] keeps them apart by
// emitting an invisible placeholder for the missing child of every node
// with a single child, and by setting ordering=out so children keep the
// order they are declared in.
//
// # Pinned Output
//
// With [Options].Pinned, every node carries a fixed pos taken from the
// layout, scaled by [PointsPerUnit]. The DOT format exported by the
// pipeline is pinned, so "neato -n2 -Tsvg tree.dot" draws the same picture
// as the native renderer while dot still computes its own placement.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
