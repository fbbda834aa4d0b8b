// Package core defines the filesystem capability the repository cache is
// built on.
//
// The cache never touches the host filesystem directly. Components receive
// an FS, which gives hierarchical read, write, stat, readdir, unlink and
// rmdir semantics over persisted storage. Production code uses a go-billy
// osfs rooted at the cache directory; tests use an in-memory memfs (see
// package fs/billy).
//
// Paths are slash separated and absolute within the FS ("/repos/acme/notes").
package core
