// Package cache manages the on-disk cache of cloned repositories.
//
// # Layout
//
// Every repository lives at a deterministic path derived from its identity:
//
//	/repos/
//	├── .index.json          # access index (advisory)
//	└── acme/
//	    └── notes/
//	        ├── .git/        # presence marks the repository as cached
//	        └── README.md
//
// A repository is cached iff its ".git" entry exists and is a directory.
// The access index only records when repositories were created and last
// used so that Prune can pick eviction candidates; it never decides
// whether something is cached.
//
// # Usage
//
//	mgr := cache.New(fsys, cache.WithRoot("/repos"))
//	if mgr.IsCached(id) {
//	    fmt.Println(mgr.Size(id))
//	}
//
//	// Evict repositories unused for a month, then keep the cache under 2GB.
//	removed, err := mgr.Prune(cache.PruneOlderThan(30*24*time.Hour), cache.PruneToSize(2<<30))
//
// Start background garbage collection:
//
//	stop := mgr.StartGC(time.Hour, cache.PruneToSize(2<<30))
//	defer stop()
//
// # Errors
//
// Read-only queries (IsCached, List, Size, Stats) never fail: errors
// degrade to false, empty or zero. Remove reports success as a boolean
// since a partially deleted tree can simply be removed again.
package cache
