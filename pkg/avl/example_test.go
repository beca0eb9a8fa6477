package avl_test

import (
	"fmt"

	"github.com/matzehuels/avlviz/pkg/avl"
)

func ExampleTree_Insert() {
	t := avl.New(avl.WithRotationHook(func(r avl.Rotation[int]) {
		fmt.Printf("%s rebalance at %d, new subtree root %d\n", r.Case, r.Pivot, r.NewRoot)
	}))

	for _, k := range []int{30, 20, 10, 20} {
		fmt.Printf("insert %d: %v\n", k, t.Insert(k))
	}

	root := t.Root()
	fmt.Println("root:", root.Key, "left:", root.Left.Key, "right:", root.Right.Key)
	fmt.Println("height:", t.Height(), "size:", t.Len())
	// Output:
	// insert 30: true
	// insert 20: true
	// left-left rebalance at 30, new subtree root 20
	// insert 10: true
	// insert 20: false
	// root: 20 left: 10 right: 30
	// height: 2 size: 3
}

func ExampleTree_Edges() {
	t := avl.New[int]()
	t.InsertAll(10, 30, 20, 40)

	for _, e := range t.Edges() {
		fmt.Printf("%d -%s-> %d\n", e.Parent, e.Side, e.Child)
	}
	// Output:
	// 20 -left-> 10
	// 20 -right-> 30
	// 30 -right-> 40
}
