// Package config loads avlviz settings from a TOML file.
//
// # File Location
//
// The default file is $XDG_CONFIG_HOME/avlviz/config.toml, falling back to
// ~/.config/avlviz/config.toml. A missing default file is not an error: every
// setting has a default. A file named explicitly must exist.
//
// # Format
//
//	[layout]
//	strategy = "size"        # or "depth"
//	horizontal_unit = 40
//	level_gap = 80
//	origin_x = 0
//	origin_y = 0
//
//	[render]
//	type = "tree"            # or "nodelink"
//	formats = ["svg"]
//	radius = 20
//	balance = false
//	heights = false
//	scale = 2.0              # PNG scale
//
//	[cache]
//	disabled = false
//	dir = ""                 # default $XDG_CACHE_HOME/avlviz
//	redis = ""               # e.g. "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[store]
//	dir = ""                 # default $XDG_DATA_HOME/avlviz/snapshots
//	mongo_uri = ""           # e.g. "mongodb://localhost:27017"
//	database = "avlviz"
//
//	[server]
//	addr = ":8080"
//
//	[random]
//	count = 20
//	max = 60
//
// Unknown keys are rejected so typos surface instead of being ignored.
// Command-line flags override file values.
package config
