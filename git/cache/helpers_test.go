package cache

import (
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mikellez/lumen/fs/billy"
	"github.com/mikellez/lumen/repo"
)

var (
	acmeNotes = repo.Identity{Owner: "Acme", Name: "Notes"}
	acmeSite  = repo.Identity{Owner: "acme", Name: "site"}
	zedTools  = repo.Identity{Owner: "zed", Name: "tools"}
)

// fakeClock returns a controllable clock starting at a fixed instant.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, opts ...Option) (*Manager, *billy.FS) {
	t.Helper()
	fsys := billy.NewMemory()
	return New(fsys, opts...), fsys
}

// seedRepo creates a cached repository with a metadata directory and the
// given working tree files.
func seedRepo(t *testing.T, m *Manager, id repo.Identity, files map[string]string) {
	t.Helper()
	dir := m.Path(id)
	require.NoError(t, m.fs.MkdirAll(path.Join(dir, MetadataDir), 0o755))
	require.NoError(t, m.fs.WriteFile(path.Join(dir, MetadataDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	for name, content := range files {
		full := path.Join(dir, name)
		require.NoError(t, m.fs.MkdirAll(path.Dir(full), 0o755))
		require.NoError(t, m.fs.WriteFile(full, []byte(content), 0o644))
	}
}
