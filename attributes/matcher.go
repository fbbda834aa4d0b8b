package attributes

import (
	"log/slog"
	"path"
	"strings"

	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/repo"
)

// FileName is the attributes file read from the repository root.
const FileName = ".gitattributes"

// Matcher answers tracking questions for cached repositories.
type Matcher struct {
	fs     core.ReadFS
	root   string
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used to report unreadable attributes files.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// NewMatcher returns a matcher reading repositories under the cache root.
func NewMatcher(fsys core.ReadFS, root string, opts ...Option) *Matcher {
	m := &Matcher{
		fs:     fsys,
		root:   root,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads and parses the attributes file of id. A missing or unreadable
// file yields no rules.
func (m *Matcher) Load(id repo.Identity) Rules {
	name := path.Join(repo.CachePath(m.root, id), FileName)
	data, err := m.fs.ReadFile(name)
	if err != nil {
		m.logger.Debug("no attributes file", "repo", id.String(), "path", name, "error", err)
		return nil
	}
	return Parse(data)
}

// IsTracked reports whether p is stored as a large file pointer in id. p
// may be absolute within the cache or relative to the repository root.
// The attributes file is read on every call.
func (m *Matcher) IsTracked(id repo.Identity, p string) bool {
	return m.Load(id).Tracked(m.Relative(id, p))
}

// Relative strips the repository root and any leading slash from p.
func (m *Matcher) Relative(id repo.Identity, p string) string {
	root := repo.CachePath(m.root, id)
	p = path.Clean("/" + strings.TrimLeft(p, "/"))
	if rel, ok := strings.CutPrefix(p, root+"/"); ok {
		return rel
	}
	return strings.TrimLeft(p, "/")
}
