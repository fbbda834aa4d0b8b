package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/repo"
)

const indexVersion = "1"

// accessIndex records creation and last access times per repository.
// It is keyed by the sanitized "owner/name" form.
type accessIndex struct {
	Version      string            `json:"version"`
	Repositories map[string]*Entry `json:"repositories"`
	mu           sync.RWMutex
}

func newAccessIndex() *accessIndex {
	return &accessIndex{
		Version:      indexVersion,
		Repositories: make(map[string]*Entry),
	}
}

func indexKey(id repo.Identity) string {
	return id.Sanitized().String()
}

// loadOrCreateIndex loads an existing index from disk or creates a new one.
// If the file exists but is corrupted, it returns an error.
func loadOrCreateIndex(fs core.FS, path string) (*accessIndex, error) {
	data, err := fs.ReadFile(path)
	if os.IsNotExist(err) {
		return newAccessIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index accessIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}

	if index.Version != indexVersion {
		return nil, fmt.Errorf("unsupported index version: %s (expected %s)", index.Version, indexVersion)
	}

	if index.Repositories == nil {
		index.Repositories = make(map[string]*Entry)
	}

	return &index, nil
}

// save writes the index through a temporary file and a rename.
func (idx *accessIndex) save(fs core.FS, path string) error {
	idx.mu.RLock()
	data, err := json.MarshalIndent(idx, "", "  ")
	idx.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := fs.WriteFile(tmpPath, data, 0o644); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary index file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename index file: %w", err)
	}

	return nil
}

// get returns a copy of the entry for id, or nil.
func (idx *accessIndex) get(id repo.Identity) *Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry, ok := idx.Repositories[indexKey(id)]
	if !ok {
		return nil
	}
	e := *entry
	return &e
}

// touch records an access at now, creating the entry if needed.
func (idx *accessIndex) touch(id repo.Identity, now time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := indexKey(id)
	entry, ok := idx.Repositories[key]
	if !ok {
		entry = &Entry{Owner: id.Owner, Name: id.Name, CreatedAt: now}
		idx.Repositories[key] = entry
	}
	entry.LastAccess = now
}

// delete drops the entry for id.
func (idx *accessIndex) delete(id repo.Identity) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	key := indexKey(id)
	_, ok := idx.Repositories[key]
	delete(idx.Repositories, key)
	return ok
}
