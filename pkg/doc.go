// Package pkg provides the core libraries for avlviz, an AVL tree builder and
// layout engine.
//
// # Overview
//
// avlviz inserts integer keys into a self-balancing AVL tree and assigns every
// node a drawing coordinate. The pkg directory is organized into three areas:
//
//  1. Domain logic: [avl] (the tree) and [layout] (coordinates)
//  2. Presentation: [graph] (serialized layouts) and [render] (SVG, DOT, text)
//  3. Infrastructure: [pipeline], [cache], [store], [config] and [server]
//
// # Architecture
//
// The typical data flow through avlviz:
//
//	Key sequence (flags, file, stdin, [keys].Random)
//	         ↓
//	    [avl] package (insert, rotate, rebalance)
//	         ↓
//	    [layout] package (key → (x, y))
//	         ↓
//	    [graph] package (serializable Layout)
//	         ↓
//	    [render] packages (SVG/PNG/PDF/DOT/JSON/text)
//
// # Quick Start
//
// Build a tree and compute its layout:
//
//	import (
//	    "github.com/matzehuels/avlviz/pkg/avl"
//	    "github.com/matzehuels/avlviz/pkg/layout"
//	    "github.com/matzehuels/avlviz/pkg/render/svg"
//	    "github.com/matzehuels/avlviz/pkg/graph"
//	)
//
//	t := avl.New[int]()
//	t.InsertAll(30, 20, 10, 40, 50)
//
//	pos := layout.Compute(t.Root(), 0, 0)
//	fmt.Println(pos[20]) // {0 0}
//
//	l := graph.FromTree(t, layout.Point{}, layout.DefaultConfig())
//	out := svg.Render(l)
//
// The [pipeline] package wraps these steps with caching and multi-format
// output, and is what the CLI and HTTP server call.
//
// [avl]: github.com/matzehuels/avlviz/pkg/avl
// [layout]: github.com/matzehuels/avlviz/pkg/layout
// [graph]: github.com/matzehuels/avlviz/pkg/graph
// [render]: github.com/matzehuels/avlviz/pkg/render
// [keys]: github.com/matzehuels/avlviz/pkg/keys
// [pipeline]: github.com/matzehuels/avlviz/pkg/pipeline
// [cache]: github.com/matzehuels/avlviz/pkg/cache
// [store]: github.com/matzehuels/avlviz/pkg/store
// [config]: github.com/matzehuels/avlviz/pkg/config
// [server]: github.com/matzehuels/avlviz/pkg/server
package pkg
