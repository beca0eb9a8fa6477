package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds height and balance factor to node labels.
	// When false, only the key is shown.
	Detailed bool
	// Highlight lists node IDs drawn with an accent fill.
	Highlight []string
	// Pinned writes each node's layout coordinates as a fixed pos
	// attribute, so "neato -n2" reproduces the computed layout instead of
	// letting Graphviz place nodes. dot itself ignores pos.
	Pinned bool
}

// PointsPerUnit converts layout units to Graphviz points for pinned output.
const PointsPerUnit = 36.0

// Placeholder ID suffixes for missing children.
const (
	leftSuffix  = "__l"
	rightSuffix = "__r"
)

const dotHeader = `digraph avl {
  rankdir=TB;
  ordering=out;
  bgcolor="transparent";
  node [shape=circle, style=filled, fillcolor=white, fontname="Roboto", fontsize=16];
  edge [arrowhead=none];
  ranksep=0.4;
  nodesep=0.3;

`

// ToDOT converts a layout to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(l graph.Layout, opts Options) string {
	w := dotWriter{highlight: make(map[string]bool, len(opts.Highlight)), opts: opts}
	for _, id := range opts.Highlight {
		w.highlight[id] = true
	}

	w.buf.WriteString(dotHeader)
	for _, n := range l.Nodes {
		w.node(n)
	}
	w.buf.WriteString("\n")
	children := l.Children()
	for _, n := range l.Nodes {
		if c, ok := children[n.ID]; ok {
			w.child(n.ID, c.Left, leftSuffix)
			w.child(n.ID, c.Right, rightSuffix)
		}
	}
	w.buf.WriteString("}\n")
	return w.buf.String()
}

type dotWriter struct {
	buf       strings.Builder
	highlight map[string]bool
	opts      Options
}

func (w *dotWriter) node(n graph.Node) {
	label := n.ID
	if w.opts.Detailed {
		label = fmt.Sprintf("%s\nh=%d bf=%+d", n.ID, n.Height, n.Balance)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if w.highlight[n.ID] {
		attrs = append(attrs, `fillcolor="#fde68a"`)
	}
	if w.opts.Pinned {
		// Graphviz's y axis points up. 0-y keeps the root at +0, not -0.
		attrs = append(attrs, fmt.Sprintf(`pos="%g,%g!"`, n.X*PointsPerUnit, 0-n.Y*PointsPerUnit))
	}
	fmt.Fprintf(&w.buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
}

// child writes the edge to a child, or an invisible placeholder in its slot
// so dot keeps a lone right child on the right.
func (w *dotWriter) child(parent, child, suffix string) {
	if child != "" {
		fmt.Fprintf(&w.buf, "  %q -> %q;\n", parent, child)
		return
	}
	ph := parent + suffix
	fmt.Fprintf(&w.buf, "  %q [label=\"\", style=invis, width=0.1];\n", ph)
	fmt.Fprintf(&w.buf, "  %q -> %q [style=invis];\n", parent, ph)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output scales like the native renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
