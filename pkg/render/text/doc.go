// Package text draws a [graph.Layout] on a character grid.
//
// Horizontal positions are quantized to half a layout unit, vertical ones to
// a level. Each level takes two lines: the keys, then the connectors to the
// next level ('/', '\' or '|' halfway between parent and child).
//
//	      20
//	    /     \
//	10          30
//
// Keys wider than the space the layout reserves for them overwrite their
// neighbours; widen the cells with [WithCellWidth] for long keys.
//
// [graph.Layout]: github.com/matzehuels/avlviz/pkg/graph.Layout
package text
