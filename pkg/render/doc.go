// Package render turns serialized tree layouts into pictures.
//
// # Overview
//
// Every renderer consumes a [graph.Layout], never a live tree, so saved
// layouts and HTTP responses can be drawn the same way as fresh ones:
//
//   - [svg]: circles and trimmed connectors drawn at the layout coordinates
//   - [nodelink]: Graphviz DOT, positioned by Graphviz itself
//   - [text]: a character grid for terminals
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the native and the
// Graphviz renderer produce SVG first.
//
//	out := svg.Render(l, svg.WithBalance())
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [graph.Layout]: github.com/matzehuels/avlviz/pkg/graph.Layout
// [svg]: github.com/matzehuels/avlviz/pkg/render/svg
// [nodelink]: github.com/matzehuels/avlviz/pkg/render/nodelink
// [text]: github.com/matzehuels/avlviz/pkg/render/text
package render
