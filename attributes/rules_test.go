package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	data := []byte(`# media files
*.mp4 filter=lfs diff=lfs merge=lfs -text

   docs/*.pdf   filter=lfs
# trailing comment
*.txt text
`)

	rules := Parse(data)
	assert.Equal(t, Rules{
		{Pattern: "*.mp4", Flags: []string{"filter=lfs", "diff=lfs", "merge=lfs", "-text"}},
		{Pattern: "docs/*.pdf", Flags: []string{"filter=lfs"}},
		{Pattern: "*.txt", Flags: []string{"text"}},
	}, rules)

	assert.True(t, rules[0].IsLFS())
	assert.True(t, rules[1].IsLFS())
	assert.False(t, rules[2].IsLFS())

	assert.Empty(t, Parse(nil))
	assert.Empty(t, Parse([]byte("\n\n# only comments\n")))
	assert.Equal(t, Rules{{Pattern: "*.bin", Flags: []string{}}}, Parse([]byte("*.bin")))
}

func TestRule_Match(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "extension at root", pattern: "*.mp4", path: "video.mp4", want: true},
		{name: "extension nested", pattern: "*.mp4", path: "assets/video.mp4", want: true},
		{name: "leading slash on path", pattern: "*.mp4", path: "/assets/video.mp4", want: true},
		{name: "extension mismatch", pattern: "*.mp4", path: "assets/video.mov", want: false},
		{name: "anchored directory", pattern: "docs/*.pdf", path: "docs/a.pdf", want: true},
		{name: "anchored directory nested", pattern: "docs/*.pdf", path: "docs/x/a.pdf", want: false},
		{name: "anchored elsewhere", pattern: "docs/*.pdf", path: "other/a.pdf", want: false},
		{name: "leading slash on pattern", pattern: "/docs/*.pdf", path: "docs/a.pdf", want: true},
		{name: "double star", pattern: "assets/**/*.png", path: "assets/a/b/c.png", want: true},
		{name: "question mark", pattern: "file?.bin", path: "file1.bin", want: true},
		{name: "bracket class", pattern: "img[0-9].png", path: "img7.png", want: true},
		{name: "bracket class miss", pattern: "img[0-9].png", path: "imgx.png", want: false},
		{name: "malformed pattern", pattern: "img[.png", path: "img[.png", want: false},
		{name: "empty path", pattern: "*", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rule{Pattern: tt.pattern}.Match(tt.path))
		})
	}
}

func TestRules_Tracked(t *testing.T) {
	t.Run("filter=lfs", func(t *testing.T) {
		rules := Parse([]byte("*.mp4 filter=lfs"))
		assert.True(t, rules.Tracked("assets/video.mp4"))
	})

	t.Run("other filter", func(t *testing.T) {
		rules := Parse([]byte("*.mp4 filter=other"))
		assert.False(t, rules.Tracked("assets/video.mp4"))
	})

	t.Run("no matching rule", func(t *testing.T) {
		rules := Parse([]byte("*.png filter=lfs"))
		assert.False(t, rules.Tracked("assets/video.mp4"))
	})

	t.Run("any matching flagged rule wins", func(t *testing.T) {
		rules := Parse([]byte("*.mp4 filter=lfs\nassets/*.mp4 -text\n"))
		assert.True(t, rules.Tracked("assets/video.mp4"))
	})

	t.Run("empty rules", func(t *testing.T) {
		assert.False(t, Rules(nil).Tracked("a.mp4"))
	})
}
