// Package filecache implements a single-node, filesystem-backed cache for
// arbitrary serialized values and opaque binary files.
//
// It targets workloads where many cooperating processes on one host, sharing
// only a directory tree, need a bounded-lifetime key/value store with
// concurrent-safe updates, large-payload handling, and background expiration.
// There is no central coordinator: writers publish via atomic rename, and the
// stampede-safe Remember/RememberFile operations coordinate through advisory
// locks on per-key lock files.
//
// A Cache is constructed once with New and passed to callers through their
// normal dependency channels; it does not expose a process-wide singleton.
package filecache
