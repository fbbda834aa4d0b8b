// Package repo defines repository identities, per-call credentials and the
// mapping from an identity to its location in the on-disk cache.
//
// Owner and name keep their original case for display. Cache paths use the
// sanitized form: trimmed, lower-cased, and with every character outside
// [a-z0-9_-] replaced by '-'. Two identities whose sanitized forms match
// share a cache directory; this collision is accepted.
//
//	id, _ := repo.Parse("Acme/Notes")
//	repo.CachePath("/repos", id) // "/repos/acme/notes"
package repo
