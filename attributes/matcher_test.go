package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikellez/lumen/fs/billy"
	"github.com/mikellez/lumen/repo"
)

var notes = repo.Identity{Owner: "Acme", Name: "Notes"}

func newTestMatcher(t *testing.T, attributes string) *Matcher {
	t.Helper()
	fsys := billy.NewMemory()
	require.NoError(t, fsys.MkdirAll("/repos/acme/notes", 0o755))
	if attributes != "" {
		require.NoError(t, fsys.WriteFile("/repos/acme/notes/.gitattributes", []byte(attributes), 0o644))
	}
	return NewMatcher(fsys, "/repos")
}

func TestMatcher_IsTracked(t *testing.T) {
	t.Run("tracked", func(t *testing.T) {
		m := newTestMatcher(t, "*.mp4 filter=lfs\n")
		assert.True(t, m.IsTracked(notes, "assets/video.mp4"))
		assert.True(t, m.IsTracked(notes, "/assets/video.mp4"))
		assert.True(t, m.IsTracked(notes, "/repos/acme/notes/assets/video.mp4"))
		assert.False(t, m.IsTracked(notes, "assets/notes.md"))
	})

	t.Run("other filter", func(t *testing.T) {
		m := newTestMatcher(t, "*.mp4 filter=other\n")
		assert.False(t, m.IsTracked(notes, "assets/video.mp4"))
	})

	t.Run("missing attributes file", func(t *testing.T) {
		m := newTestMatcher(t, "")
		assert.False(t, m.IsTracked(notes, "assets/video.mp4"))
		assert.Nil(t, m.Load(notes))
	})

	t.Run("uncached repository", func(t *testing.T) {
		m := newTestMatcher(t, "*.mp4 filter=lfs\n")
		assert.False(t, m.IsTracked(repo.Identity{Owner: "zed", Name: "tools"}, "a.mp4"))
	})
}

func TestMatcher_Relative(t *testing.T) {
	m := newTestMatcher(t, "")

	tests := map[string]string{
		"uploads/1.png":                   "uploads/1.png",
		"/uploads/1.png":                  "uploads/1.png",
		"//uploads/1.png":                 "uploads/1.png",
		"/repos/acme/notes/uploads/1.png": "uploads/1.png",
		"/repos/acme/other/uploads/1.png": "repos/acme/other/uploads/1.png",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, m.Relative(notes, in))
		})
	}
}
