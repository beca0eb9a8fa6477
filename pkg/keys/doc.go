// Package keys reads the integer keys that get inserted into a tree.
//
// Keys come from command-line arguments, files, HTTP bodies or a random
// generator. Arguments may hold several keys separated by commas or
// whitespace:
//
//	keys.ParseAll([]string{"30,20", "10 40"}) // [30 20 10 40]
//
// Files are either a JSON array or a plain list with '#' comments:
//
//	# first batch
//	30 20 10
//	40, 50   # triggers a rotation
//
// Order is preserved and duplicates are kept: the tree ignores repeated
// keys itself, and the insertion sequence is what snapshots replay.
package keys
