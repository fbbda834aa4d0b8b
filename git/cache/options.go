package cache

import (
	"log/slog"
	"time"
)

// WithRoot sets the directory that holds cached repositories.
//
// Example:
//
//	mgr := cache.New(fsys, cache.WithRoot("/data/repos"))
func WithRoot(root string) Option {
	return func(m *Manager) {
		m.root = root
	}
}

// WithLogger sets the logger used for removal and pruning events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIndex enables or disables the access index. It is enabled by
// default. Without it Touch is a no-op and every repository looks equally
// old to Prune.
func WithIndex(enabled bool) Option {
	return func(m *Manager) {
		m.useIndex = enabled
	}
}

// WithClock replaces time.Now for access tracking and pruning.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// PruneOlderThan removes repositories not accessed within maxAge.
//
// Example:
//
//	mgr.Prune(cache.PruneOlderThan(7*24*time.Hour))
func PruneOlderThan(maxAge time.Duration) PruneStrategy {
	return &pruneOlderThan{maxAge: maxAge}
}

// PruneToSize removes least recently accessed repositories until the total
// cache size is at most maxBytes.
//
// Example:
//
//	mgr.Prune(cache.PruneToSize(10*1024*1024*1024)) // Keep under 10GB
func PruneToSize(maxBytes int64) PruneStrategy {
	return &pruneToSize{maxBytes: maxBytes}
}
