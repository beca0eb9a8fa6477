package graph_test

import (
	"fmt"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/graph"
	"github.com/matzehuels/avlviz/pkg/layout"
)

func ExampleFromTree() {
	t := avl.New[int]()
	t.InsertAll(10, 20, 30)

	l := graph.FromTree(t, layout.Point{X: 400, Y: 30}, layout.DefaultConfig())
	for _, n := range l.Nodes {
		fmt.Printf("%s (%g,%g) height=%d\n", n.ID, n.X, n.Y, n.Height)
	}
	for _, e := range l.Edges {
		fmt.Printf("%s -%s-> %s\n", e.From, e.Side, e.To)
	}
	// Output:
	// 20 (400,30) height=2
	// 10 (360,110) height=1
	// 30 (440,110) height=1
	// 20 -left-> 10
	// 20 -right-> 30
}
