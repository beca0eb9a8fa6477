package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/layout"
)

func sample(cfg layout.Config, keys ...int) graph.Layout {
	t := avl.New[int]()
	t.InsertAll(keys...)
	return graph.FromTree(t, layout.Point{X: 400, Y: 30}, cfg)
}

func TestRender(t *testing.T) {
	got := Render(sample(layout.DefaultConfig(), 20, 10, 30))
	want := "      20\n" +
		"    /     \\\n" +
		"10          30\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	l := sample(layout.DefaultConfig(), 20, 10, 30)

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"Balance", []Option{WithBalance()}, "20(+0)"},
		{"Mark", []Option{WithMark("30")}, "[30]"},
		{"MarkAndBalance", []Option{WithMark("10"), WithBalance()}, "[10(+0)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(l, tt.opts...); !strings.Contains(got, tt.want) {
				t.Errorf("Render() =\n%s\nmissing %q", got, tt.want)
			}
		})
	}
}

func TestRenderShape(t *testing.T) {
	got := Render(sample(layout.DefaultConfig(), 2, 1, 3, 4))
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Render() has %d lines, want 5:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[3], `\`) || strings.Contains(lines[3], "/") {
		t.Errorf("connector line %q, want a single right connector", lines[3])
	}
	if strings.TrimSpace(lines[4]) != "4" {
		t.Errorf("last line %q, want key 4 only", lines[4])
	}
	for i, line := range lines {
		if line != strings.TrimRight(line, " ") {
			t.Errorf("line %d has trailing spaces: %q", i, line)
		}
	}
}

func TestRenderOnlyChildBelow(t *testing.T) {
	got := Render(sample(layout.NewConfig(layout.WithStrategy(layout.WidthByDepth)), 1, 2))
	if want := "1\n|\n2\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(sample(layout.DefaultConfig())); got != "" {
		t.Errorf("Render(empty) = %q, want empty", got)
	}
}

func TestRenderCellWidth(t *testing.T) {
	narrow := Render(sample(layout.DefaultConfig(), 20, 10, 30), WithCellWidth(1))
	wide := Render(sample(layout.DefaultConfig(), 20, 10, 30), WithCellWidth(5))
	if len(wide) <= len(narrow) {
		t.Errorf("wider cells produced %d bytes, narrow %d", len(wide), len(narrow))
	}
}
