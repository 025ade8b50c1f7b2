// Package fsys abstracts the file operations the cache layer depends on.
//
// The FileSystem interface reports every failure through its return values:
// no operation panics and no error value escapes. That keeps the cache layer
// free of error plumbing and lets tests swap in deterministic implementations.
// OS is the production implementation; Null is an inert implementation whose
// every operation fails, used wherever no real file system is wired up.
//
// The package-level path helpers are pure string functions with defined
// behavior on empty input.
package fsys
