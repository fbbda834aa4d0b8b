package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/repo"
)

const (
	// DefaultRoot is the cache root used when WithRoot is not given.
	DefaultRoot = "/repos"

	// MetadataDir is the directory whose presence marks a repository as cached.
	MetadataDir = ".git"

	indexFile = ".index.json"

	// maxWalkDepth bounds recursive walks so a cyclic tree cannot loop.
	maxWalkDepth = 64
)

// Manager creates, enumerates, measures and deletes cached repositories.
//
// Operations on different identities never conflict. Manager does not
// serialize mutations of a single repository; that is the caller's job.
type Manager struct {
	fs        core.FS
	root      string
	indexPath string
	useIndex  bool
	logger    *slog.Logger
	now       func() time.Time

	index *accessIndex
	mu    sync.Mutex // guards index persistence
}

// Entry is the access record of a cached repository.
type Entry struct {
	Owner      string    `json:"owner"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastAccess time.Time `json:"last_access"`
}

// Identity returns the repository identity recorded for the entry.
func (e *Entry) Identity() repo.Identity {
	return repo.Identity{Owner: e.Owner, Name: e.Name}
}

// Stats summarizes the cache.
type Stats struct {
	Repositories int   // Number of cached repositories
	TotalSize    int64 // Disk usage of all cached repositories in bytes
	Oldest       *time.Time
	Newest       *time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// PruneStrategy determines which repositories Prune removes.
type PruneStrategy interface {
	ShouldPrune(entry *Entry, now time.Time) bool
}

// pruneOlderThan implements PruneStrategy for last-access-based expiration.
type pruneOlderThan struct {
	maxAge time.Duration
}

func (p *pruneOlderThan) ShouldPrune(entry *Entry, now time.Time) bool {
	return now.Sub(entry.LastAccess) > p.maxAge
}

// pruneToSize implements PruneStrategy for size-based pruning.
type pruneToSize struct {
	maxBytes int64
}

// ShouldPrune always returns false; Prune handles the size limit itself
// because it depends on every other candidate.
func (p *pruneToSize) ShouldPrune(*Entry, time.Time) bool {
	return false
}
