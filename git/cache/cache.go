package cache

import (
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/repo"
)

// New creates a cache manager over fsys.
//
// The access index is loaded from "<root>/.index.json" when present. A
// corrupted index is logged and replaced, since it only carries advisory
// metadata.
//
// Example:
//
//	mgr := cache.New(billy.NewLocal(dataDir), cache.WithRoot("/repos"))
func New(fsys core.FS, opts ...Option) *Manager {
	m := &Manager{
		fs:       fsys,
		root:     DefaultRoot,
		useIndex: true,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.root = path.Join("/", m.root)
	m.indexPath = path.Join(m.root, indexFile)
	m.index = newAccessIndex()

	if m.useIndex {
		index, err := loadOrCreateIndex(fsys, m.indexPath)
		if err != nil {
			m.logger.Warn("discarding cache index", "path", m.indexPath, "error", err)
		} else {
			m.index = index
		}
	}

	return m
}

// Root returns the directory holding cached repositories.
func (m *Manager) Root() string {
	return m.root
}

// Path returns the cache directory of id.
func (m *Manager) Path(id repo.Identity) string {
	return repo.CachePath(m.root, id)
}

// EnsureDirectory creates every missing segment from the filesystem root to
// dir. Each segment is checked first and only created when absent, so
// existing directories are tolerated.
func (m *Manager) EnsureDirectory(dir string) error {
	dir = path.Join("/", dir)
	if dir == "/" {
		return nil
	}

	current := "/"
	for _, segment := range strings.Split(strings.TrimPrefix(dir, "/"), "/") {
		current = path.Join(current, segment)

		info, err := m.fs.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return errors.WithContext(
					errors.Newf(errors.CodeFilesystem, "%s exists and is not a directory", current),
					"path", current)
			}
			continue
		}
		if !os.IsNotExist(err) {
			return errors.WithContext(
				errors.Wrapf(err, errors.CodeFilesystem, "failed to stat %s", current),
				"path", current)
		}

		if err := m.fs.Mkdir(current, 0o755); err != nil && !os.IsExist(err) {
			return errors.WithContext(
				errors.Wrapf(err, errors.CodeFilesystem, "failed to create %s", current),
				"path", current)
		}
	}

	return nil
}

// IsCached reports whether id has been cloned into the cache. Any error,
// including a missing directory, yields false.
func (m *Manager) IsCached(id repo.Identity) bool {
	return m.isCachedPath(m.Path(id))
}

func (m *Manager) isCachedPath(dir string) bool {
	info, err := m.fs.Stat(path.Join(dir, MetadataDir))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// List returns every cached repository, sorted by owner then name.
//
// It walks two levels (owner, then name) below the root. Directories that
// fail to list are skipped, so under concurrent mutation the result may be
// partial. Identities keep the case recorded in the access index when
// available and the on-disk form otherwise.
func (m *Manager) List() []repo.Identity {
	owners, err := m.fs.ReadDir(m.root)
	if err != nil {
		return nil
	}

	var ids []repo.Identity
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		ownerPath := path.Join(m.root, owner.Name())

		names, err := m.fs.ReadDir(ownerPath)
		if err != nil {
			continue
		}

		for _, name := range names {
			if !name.IsDir() || !m.isCachedPath(path.Join(ownerPath, name.Name())) {
				continue
			}
			id := repo.Identity{Owner: owner.Name(), Name: name.Name()}
			if entry := m.index.get(id); entry != nil {
				id = entry.Identity()
			}
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		return indexKey(ids[i]) < indexKey(ids[j])
	})

	return ids
}

// Size returns the total size in bytes of every file under the cache
// directory of id. Errors at any level contribute zero.
func (m *Manager) Size(id repo.Identity) int64 {
	return m.dirSize(m.Path(id), 0)
}

func (m *Manager) dirSize(dir string, depth int) int64 {
	if depth > maxWalkDepth {
		return 0
	}

	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return 0
	}

	var size int64
	for _, entry := range entries {
		if entry.IsDir() {
			size += m.dirSize(path.Join(dir, entry.Name()), depth+1)
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		size += info.Size()
	}

	return size
}

// Remove deletes the cache directory of id, children before parents. It
// returns false on the first failure, which may leave a partially deleted
// tree, and false when there was nothing to remove.
func (m *Manager) Remove(id repo.Identity) bool {
	dir := m.Path(id)
	logger := m.logger.With("repo", id.String(), "path", dir)

	if _, err := m.fs.Stat(dir); err != nil {
		logger.Debug("nothing to remove", "error", err)
		return false
	}

	if err := m.removeAll(dir, 0); err != nil {
		logger.Error("failed to remove cached repository", "error", err)
		return false
	}

	m.pruneOwner(path.Dir(dir))

	if m.index.delete(id) {
		m.saveIndex()
	}

	logger.Info("removed cached repository")
	return true
}

// pruneOwner removes an owner directory once its last repository is gone.
func (m *Manager) pruneOwner(dir string) {
	if dir == m.root || !strings.HasPrefix(dir, strings.TrimSuffix(m.root, "/")+"/") {
		return
	}
	entries, err := m.fs.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := m.fs.Remove(dir); err != nil {
		m.logger.Debug("failed to remove empty owner directory", "path", dir, "error", err)
	}
}

// removeAll removes a path and all its children, depth first.
func (m *Manager) removeAll(name string, depth int) error {
	if depth > maxWalkDepth {
		return errors.Newf(errors.CodeFilesystem, "%s exceeds maximum depth", name)
	}

	info, err := m.fs.Stat(name)
	if err != nil {
		return err
	}

	if info.IsDir() {
		entries, err := m.fs.ReadDir(name)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := m.removeAll(path.Join(name, entry.Name()), depth+1); err != nil {
				return err
			}
		}
	}

	return m.fs.Remove(name)
}

// Touch records an access to id in the index. Failures are logged.
func (m *Manager) Touch(id repo.Identity) {
	if !m.useIndex {
		return
	}
	m.index.touch(id, m.now())
	m.saveIndex()
}

// Entry returns the access record of id, or nil when none exists.
func (m *Manager) Entry(id repo.Identity) *Entry {
	return m.index.get(id)
}

// Stats returns statistics about the cache.
func (m *Manager) Stats() Stats {
	var stats Stats
	for _, id := range m.List() {
		stats.Repositories++
		stats.TotalSize += m.Size(id)

		entry := m.index.get(id)
		if entry == nil {
			continue
		}
		if stats.Oldest == nil || entry.CreatedAt.Before(*stats.Oldest) {
			t := entry.CreatedAt
			stats.Oldest = &t
		}
		if stats.Newest == nil || entry.CreatedAt.After(*stats.Newest) {
			t := entry.CreatedAt
			stats.Newest = &t
		}
	}
	return stats
}

func (m *Manager) saveIndex() {
	if !m.useIndex {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fs.MkdirAll(m.root, 0o755); err != nil {
		m.logger.Warn("failed to create cache root", "path", m.root, "error", err)
		return
	}
	if err := m.index.save(m.fs, m.indexPath); err != nil {
		m.logger.Warn("failed to save cache index", "path", m.indexPath, "error", err)
	}
}
