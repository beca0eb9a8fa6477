// Package store persists tree snapshots.
//
// A snapshot records the ordered key sequence a tree was built from. AVL
// shape depends on insertion order, so replaying the keys into an empty tree
// reproduces the original exactly; no node structure is stored.
//
// # Backends
//
//   - [FileStore]: one JSON document per snapshot in a directory (default)
//   - [LevelDBStore]: an embedded goleveldb database, for many snapshots
//   - [MongoStore]: a MongoDB collection, for stores shared between servers
//
// All backends implement [Store]. [Open] picks one from configuration.
//
// # Lookup
//
// [Find] resolves a user-supplied reference by exact ID, then by name, then
// by unique ID prefix, which lets the CLI accept short IDs.
package store
