// Package graph provides the serialization format for laid-out AVL trees.
//
// A [Layout] is what leaves the process: JSON files written by the CLI,
// HTTP API responses, cached render inputs and the input of every renderer
// under pkg/render. Renderers never see an [avl.Tree] directly, so anything
// that can be drawn can also be saved and drawn later.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeTree      // "tree": native SVG from layout coordinates
//	graph.VizTypeNodelink  // "nodelink": Graphviz positions the nodes
//	graph.FormatSVG        // "svg", also png, pdf, json, dot, txt
//
// # Layout Serialization
//
//	{
//	  "strategy": "size",
//	  "unit": 40,
//	  "level_gap": 80,
//	  "root": "20",
//	  "size": 3,
//	  "nodes": [{"id": "20", "x": 400, "y": 30, "height": 2, "width": 3}, ...],
//	  "edges": [{"from": "20", "to": "10", "side": "left"}, ...]
//	}
//
// Common operations:
//
//	l := graph.FromTree(tree, layout.Point{X: 400, Y: 30}, layout.DefaultConfig())
//	data, _ := graph.MarshalLayout(l)
//	parsed, _ := graph.UnmarshalLayout(data)
//	graph.WriteLayoutFile(l, "tree.json")
//
// Node IDs are the keys formatted with fmt.Sprint. Nodes are stored in
// pre-order, so the first node is always the root.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
