package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/avlviz/pkg/graph"
)

const (
	// DefaultRadius is the node circle radius.
	DefaultRadius = 20.0
	// DefaultMargin is the blank border around the drawing.
	DefaultMargin = 10.0
	// DefaultFont is the label font.
	DefaultFont = "16px Roboto, sans-serif"
)

const styleCSS = `
    .edge { stroke: #000; stroke-width: 1.5; }
    .node circle { fill: #fff; stroke: #000; stroke-width: 1.5; }
    .node.highlight circle { fill: #fde68a; }
    .label { text-anchor: middle; dominant-baseline: central; fill: #000; }
    .annotation { text-anchor: middle; fill: #666; font-size: 11px; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	radius    float64
	margin    float64
	font      string
	balance   bool
	heights   bool
	highlight map[string]bool
}

// WithRadius sets the circle radius.
func WithRadius(r float64) Option { return func(s *renderer) { s.radius = r } }

// WithMargin sets the border around the drawing.
func WithMargin(m float64) Option { return func(s *renderer) { s.margin = m } }

// WithFont sets the CSS font shorthand used for labels.
func WithFont(f string) Option { return func(s *renderer) { s.font = f } }

// WithBalance annotates every node with its balance factor.
func WithBalance() Option { return func(s *renderer) { s.balance = true } }

// WithHeights annotates every node with its height.
func WithHeights() Option { return func(s *renderer) { s.heights = true } }

// WithHighlight fills the given nodes with an accent color.
func WithHighlight(ids ...string) Option {
	return func(s *renderer) {
		if s.highlight == nil {
			s.highlight = make(map[string]bool, len(ids))
		}
		for _, id := range ids {
			s.highlight[id] = true
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{radius: DefaultRadius, margin: DefaultMargin, font: DefaultFont}
	for _, opt := range opts {
		opt(&r)
	}
	if r.radius <= 0 {
		r.radius = DefaultRadius
	}
	if r.margin < 0 {
		r.margin = 0
	}
	return r
}

// Render returns the SVG document for l.
func Render(l graph.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	pad := r.radius + r.margin
	if r.balance || r.heights {
		pad += 14
	}
	minX, minY := l.Bounds.MinX-pad, l.Bounds.MinY-pad
	w, h := l.Bounds.Width()+2*pad, l.Bounds.Height()+2*pad

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(minX), num(minY), num(w), num(h), w, h)
	fmt.Fprintf(&buf, "  <style>%s\n    .label { font: %s; }\n  </style>\n", styleCSS, html.EscapeString(r.font))

	if !l.IsEmpty() {
		byID := make(map[string]graph.Node, len(l.Nodes))
		for _, n := range l.Nodes {
			byID[n.ID] = n
		}

		buf.WriteString(`  <g class="edges">` + "\n")
		for _, e := range l.Edges {
			from, okF := byID[e.From]
			to, okT := byID[e.To]
			if !okF || !okT {
				continue
			}
			r.renderEdge(&buf, e, from, to)
		}
		buf.WriteString("  </g>\n")

		buf.WriteString(`  <g class="nodes">` + "\n")
		for _, n := range l.Nodes {
			r.renderNode(&buf, n)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderEdge(buf *bytes.Buffer, e graph.Edge, from, to graph.Node) {
	x1, y1, x2, y2, ok := trim(from.X, from.Y, to.X, to.Y, r.radius)
	if !ok {
		return
	}
	fmt.Fprintf(buf, `    <line class="edge" data-from="%s" data-to="%s" data-side="%s" x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
		html.EscapeString(e.From), html.EscapeString(e.To), e.Side, num(x1), num(y1), num(x2), num(y2))
}

func (r *renderer) renderNode(buf *bytes.Buffer, n graph.Node) {
	class := "node"
	if r.highlight[n.ID] {
		class += " highlight"
	}
	id := html.EscapeString(n.ID)
	fmt.Fprintf(buf, `    <g class="%s" id="node-%s">`+"\n", class, id)
	fmt.Fprintf(buf, `      <circle cx="%s" cy="%s" r="%s"/>`+"\n", num(n.X), num(n.Y), num(r.radius))
	fmt.Fprintf(buf, `      <text class="label" x="%s" y="%s">%s</text>`+"\n", num(n.X), num(n.Y), id)

	var notes []string
	if r.heights {
		notes = append(notes, fmt.Sprintf("h=%d", n.Height))
	}
	if r.balance {
		notes = append(notes, fmt.Sprintf("bf=%+d", n.Balance))
	}
	for i, note := range notes {
		fmt.Fprintf(buf, `      <text class="annotation" x="%s" y="%s">%s</text>`+"\n",
			num(n.X), num(n.Y-r.radius-4-float64(len(notes)-1-i)*12), note)
	}
	buf.WriteString("    </g>\n")
}

// trim shortens the segment between two circle centers so that it starts and
// ends on the circle boundaries. ok is false when the circles overlap.
func trim(x1, y1, x2, y2, radius float64) (sx, sy, ex, ey float64, ok bool) {
	dx, dy := x2-x1, y2-y1
	if math.Hypot(dx, dy) <= 2*radius {
		return 0, 0, 0, 0, false
	}
	angle := math.Atan2(dy, dx)
	ox, oy := radius*math.Cos(angle), radius*math.Sin(angle)
	return x1 + ox, y1 + oy, x2 - ox, y2 - oy, true
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
