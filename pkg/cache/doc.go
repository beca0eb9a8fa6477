// Package cache stores rendered artifacts and layouts between runs.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [MemoryCache]: in-process, expiring map (HTTP server default)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: never stores anything (--no-cache)
//
// All backends implement [Cache]. A miss is reported as ok == false with a
// nil error; errors are reserved for backend failures, and callers treat
// them as misses after logging.
//
// # Keys
//
// A [Keyer] derives keys from the hash of the input and the options that
// affect the output, so changing any option yields a different key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(layoutJSON), cache.ArtifactKeyOpts{Format: "png", Scale: 2})
//
// Wrap a keyer with [NewScopedKeyer] to namespace keys, for example by
// program version.
package cache
