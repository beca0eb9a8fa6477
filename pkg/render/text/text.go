package text

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/layout"
)

// DefaultCellWidth is the number of columns per half layout unit.
const DefaultCellWidth = 3

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	cellWidth int
	balance   bool
	marked    map[string]bool
}

// WithCellWidth sets the columns per half layout unit.
func WithCellWidth(n int) Option { return func(r *renderer) { r.cellWidth = n } }

// WithBalance appends the balance factor to every key, as in 20(-1).
func WithBalance() Option { return func(r *renderer) { r.balance = true } }

// WithMark wraps the given nodes in brackets.
func WithMark(ids ...string) Option {
	return func(r *renderer) {
		if r.marked == nil {
			r.marked = make(map[string]bool, len(ids))
		}
		for _, id := range ids {
			r.marked[id] = true
		}
	}
}

// Render returns the drawing with one trailing newline, or "" for an empty
// layout.
func Render(l graph.Layout, opts ...Option) string {
	if l.IsEmpty() {
		return ""
	}
	r := renderer{cellWidth: DefaultCellWidth}
	for _, opt := range opts {
		opt(&r)
	}
	r.cellWidth = max(r.cellWidth, 1)

	half := l.Unit / 2
	if half <= 0 {
		half = layout.DefaultHorizontalUnit / 2
	}
	gap := l.LevelGap
	if gap <= 0 {
		gap = layout.DefaultLevelGap
	}

	type cell struct {
		col, level int
		label      []rune
	}
	cells := make(map[string]cell, len(l.Nodes))
	shift := 0
	for _, n := range l.Nodes {
		c := cell{
			col:   int(math.Round((n.X-l.Bounds.MinX)/half)) * r.cellWidth,
			level: int(math.Round((n.Y - l.Bounds.MinY) / gap)),
			label: []rune(r.label(n)),
		}
		cells[n.ID] = c
		shift = max(shift, len(c.label)/2-c.col)
	}

	var g grid
	for _, e := range l.Edges {
		p, c := cells[e.From], cells[e.To]
		ch := '|'
		switch {
		case c.col < p.col:
			ch = '/'
		case c.col > p.col:
			ch = '\\'
		}
		g.put(p.level*2+1, (p.col+c.col)/2+shift, ch)
	}
	for _, n := range l.Nodes {
		c := cells[n.ID]
		start := c.col + shift - len(c.label)/2
		for i, ch := range c.label {
			g.put(c.level*2, start+i, ch)
		}
	}
	return g.String()
}

func (r *renderer) label(n graph.Node) string {
	s := n.ID
	if r.balance {
		s = fmt.Sprintf("%s(%+d)", s, n.Balance)
	}
	if r.marked[n.ID] {
		s = "[" + s + "]"
	}
	return s
}

// grid is a sparse rune canvas that grows on write.
type grid struct {
	rows [][]rune
}

func (g *grid) put(row, col int, ch rune) {
	if row < 0 || col < 0 {
		return
	}
	for len(g.rows) <= row {
		g.rows = append(g.rows, nil)
	}
	for len(g.rows[row]) <= col {
		g.rows[row] = append(g.rows[row], ' ')
	}
	g.rows[row][col] = ch
}

func (g *grid) String() string {
	var b strings.Builder
	for _, row := range g.rows {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
