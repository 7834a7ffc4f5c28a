// Package cache provides a file-backed TTL cache for expensive fetch results.
//
// Each key maps to one JSON file in the cache directory containing an envelope
// with the payload, creation timestamp, and expiry. Keys are sanitized to a
// filesystem-safe token, so caller-supplied keys (team name concatenations,
// URLs) cannot escape the cache directory. Expired and unreadable entries are
// treated as misses, never as errors.
//
// The store sees single-threaded, single-process access in every call site.
// It performs non-atomic read-modify-write on its backing files and must not
// be shared across concurrent writers without adding a per-key lock or an
// atomic-rename-on-write discipline.
package cache
