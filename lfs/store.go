package lfs

import (
	"context"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/repo"
)

// Tracker reports whether a path is stored as a pointer.
type Tracker interface {
	IsTracked(id repo.Identity, path string) bool
}

// Locator maps an identity to its working tree.
type Locator interface {
	Path(id repo.Identity) string
}

// Remote is the large file endpoint used by Store.
type Remote interface {
	Resolve(ctx context.Context, pointer []byte, id repo.Identity, creds repo.Credentials) (string, error)
	Upload(ctx context.Context, content []byte, id repo.Identity, creds repo.Credentials) error
}

var _ Remote = (*Client)(nil)

// File is the result of reading a working tree path. Exactly one of
// Content and URL is set.
type File struct {
	Path     string
	Content  []byte   // Raw bytes of an untracked file
	URL      string   // Fetchable location of a tracked file
	Pointer  *Pointer // Parsed pointer of a tracked file
	MIMEType string
}

// IsPointer reports whether the file was resolved from a pointer.
func (f *File) IsPointer() bool {
	return f.Pointer != nil
}

// Store reads and writes working tree files, routing tracked paths through
// the large file endpoint.
type Store struct {
	fs      core.FS
	paths   Locator
	tracker Tracker
	remote  Remote
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the store logger.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store. Paths passed to its methods are relative to
// the repository root returned by paths.
func NewStore(fsys core.FS, paths Locator, tracker Tracker, remote Remote, opts ...StoreOption) *Store {
	s := &Store{
		fs:      fsys,
		paths:   paths,
		tracker: tracker,
		remote:  remote,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve maps p onto the working tree of id. Paths that leave the tree
// or reach into .git are refused.
func (s *Store) resolve(id repo.Identity, p string) (string, error) {
	root := strings.TrimSuffix(s.paths.Path(id), "/")
	rel := path.Clean(strings.TrimLeft(p, "/"))
	first, _, _ := strings.Cut(rel, "/")

	full := path.Join(root, rel)
	if rel == "." || first == ".." || first == ".git" || !strings.HasPrefix(full, root+"/") {
		return "", errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "path %q is outside the working tree", p),
			"repo", id.String())
	}
	return full, nil
}

// WriteFile writes content to p in the working tree of id.
//
// For tracked paths the content is uploaded first and the pointer is
// written only after the upload succeeds. A failed upload writes nothing.
func (s *Store) WriteFile(ctx context.Context, id repo.Identity, p string, content []byte, creds repo.Credentials) error {
	full, err := s.resolve(id, p)
	if err != nil {
		return err
	}
	logger := s.logger.With("repo", id.String(), "path", p)

	data := content
	if s.tracker.IsTracked(id, p) {
		if err := s.remote.Upload(ctx, content, id, creds); err != nil {
			return err
		}
		data = []byte(BuildPointer(content))
		logger.Debug("writing pointer", "size", len(content))
	}

	if err := s.fs.WriteFile(full, data, 0o644); err != nil {
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeFilesystem, "failed to write %s", p),
			"path", full)
	}
	return nil
}

// ReadFile reads p from the working tree of id.
//
// When p is tracked and holds a pointer, the pointer is resolved and the
// returned File carries a URL instead of the pointer bytes. Tracked paths
// that do not hold a pointer (not yet converted) are returned as content.
func (s *Store) ReadFile(ctx context.Context, id repo.Identity, p string, creds repo.Credentials) (*File, error) {
	full, err := s.resolve(id, p)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(full)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrapf(err, errors.CodeFilesystem, "failed to read %s", p),
			"path", full)
	}

	file := &File{Path: p, MIMEType: MIMEType(p)}

	if s.tracker.IsTracked(id, p) {
		if pointer, err := ParsePointer(data); err == nil {
			location, err := s.remote.Resolve(ctx, data, id, creds)
			if err != nil {
				return nil, err
			}
			file.URL = location
			file.Pointer = &pointer
			return file, nil
		}
	}

	file.Content = data
	return file, nil
}

// mediaTypes covers attachments missing from the builtin mime table, which
// otherwise depends on the host's mime.types.
var mediaTypes = map[string]string{
	".txt":  "text/plain; charset=utf-8",
	".md":   "text/markdown; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".zip":  "application/zip",
}

// MIMEType returns the media type implied by the extension of p, or
// application/octet-stream when unknown.
func MIMEType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
