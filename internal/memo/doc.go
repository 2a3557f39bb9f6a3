// Package memo memoizes expensive function results in a bounded, FIFO-evicted
// cache whose full state can be persisted to a human-readable file.
//
// A Cache stores encoded results keyed by a namespace plus the JSON encoding of
// the call arguments. Every key in the mapping appears exactly once in the
// eviction order and vice versa. Eviction is strictly oldest-inserted-first; a
// hit never reorders keys. Failed computations are never recorded.
//
// DiskStore loads the cache image once at process start (a missing file yields
// an empty image) and persists it on demand. Persistence is a snapshot, not a
// journal: mutations made after the last Persist are lost on a crash.
//
// Memoize wraps a typed function so callers never handle encoded values.
package memo
