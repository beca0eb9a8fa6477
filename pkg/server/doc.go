// Package server exposes hosted AVL trees over HTTP.
//
// Clients create a tree from a key sequence, insert more keys one batch at
// a time, and fetch the recomputed layout or a rendered artifact after each
// step. Every tree lives in memory for the life of the process and, when a
// [store.Store] is configured, is saved as a snapshot before each change
// reaches the live tree, and reloaded on demand. A failed save leaves the
// live tree as it was.
//
// # Endpoints
//
//	GET    /healthz                    liveness and build version
//	GET    /trees                      list snapshots (requires a store)
//	POST   /trees                      {"keys":[..],"name":".."} → 201 {id, layout}
//	GET    /trees/{id}                 current layout
//	POST   /trees/{id}/keys            {"keys":[..]} → inserted, duplicates, rotations, layout
//	GET    /trees/{id}/render/{format} svg | png | pdf | dot | txt | json
//	DELETE /trees/{id}                 forget the tree and its snapshot
//
// Layout and render options are query parameters: strategy, viz, balance,
// heights, highlight (comma separated IDs), radius and scale.
//
// # Errors
//
// Failures are JSON documents {"error": "...", "code": "..."} whose status
// follows the error code: invalid input is 400, unknown trees are 404, and
// renderers that need a missing external tool are 501.
package server
