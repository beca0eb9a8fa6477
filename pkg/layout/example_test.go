package layout_test

import (
	"fmt"

	"github.com/matzehuels/avlviz/pkg/avl"
	"github.com/matzehuels/avlviz/pkg/layout"
)

func ExampleCompute() {
	t := avl.New[int]()
	t.InsertAll(30, 20, 10, 40)

	pos := layout.Compute(t.Root(), 400, 30)
	for _, k := range t.Keys() {
		fmt.Printf("%d at (%g, %g)\n", k, pos[k].X, pos[k].Y)
	}
	// Output:
	// 10 at (340, 110)
	// 20 at (400, 30)
	// 30 at (440, 110)
	// 40 at (460, 190)
}
