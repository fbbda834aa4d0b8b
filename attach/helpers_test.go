package attach

import (
	"context"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/mikellez/lumen/repo"
)

var (
	notes   = repo.Identity{Owner: "acme", Name: "notes"}
	creds   = repo.Credentials{Principal: "ada", Token: "s3cret", DisplayName: "Ada Lovelace", Email: "ada@example.com"}
	session = Session{Repo: notes, Credentials: creds}
	fixedAt = time.UnixMilli(1700000000000)
)

func fixedClock() time.Time { return fixedAt }

type fakeDirs struct {
	ensured []string
	err     error
}

func (f *fakeDirs) Path(id repo.Identity) string {
	return "/repos/" + id.Sanitized().String()
}

func (f *fakeDirs) EnsureDirectory(dir string) error {
	f.ensured = append(f.ensured, dir)
	return f.err
}

type write struct {
	path    string
	content []byte
}

type fakeWriter struct {
	writes []write
	err    error
}

func (f *fakeWriter) WriteFile(_ context.Context, _ repo.Identity, p string, content []byte, _ repo.Credentials) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, write{path: p, content: content})
	return nil
}

// fakeCommitter runs on the background goroutine, so it locks.
type fakeCommitter struct {
	mu       sync.Mutex
	staged   []string
	messages []string
	ctxErrs  []error

	// release, when set, blocks Stage until closed.
	release   chan struct{}
	stageErr  error
	commitErr error
}

func (f *fakeCommitter) Stage(ctx context.Context, _ repo.Identity, paths ...string) error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staged = append(f.staged, paths...)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.stageErr
}

func (f *fakeCommitter) Commit(_ context.Context, _ repo.Identity, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	if f.commitErr != nil {
		return "", f.commitErr
	}
	return "0123456789abcdef0123456789abcdef01234567", nil
}

func (f *fakeCommitter) snapshot() (staged, messages []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.staged...), append([]string(nil), f.messages...)
}

// fakeEditor keeps its document in UTF-16 like a browser editor.
type fakeEditor struct {
	doc       []uint16
	from, to  int
	changes   []Change
	selection Selection
	focused   bool
}

func newEditor(doc string, from, to int) *fakeEditor {
	return &fakeEditor{doc: utf16.Encode([]rune(doc)), from: from, to: to}
}

func (e *fakeEditor) Selection() (int, int) { return e.from, e.to }

func (e *fakeEditor) Slice(from, to int) string {
	return string(utf16.Decode(e.doc[from:to]))
}

func (e *fakeEditor) Dispatch(change Change, selection Selection) {
	doc := append([]uint16(nil), e.doc[:change.From]...)
	doc = append(doc, utf16.Encode([]rune(change.Insert))...)
	e.doc = append(doc, e.doc[change.To:]...)
	e.changes = append(e.changes, change)
	e.selection = selection
}

func (e *fakeEditor) Focus() { e.focused = true }

func (e *fakeEditor) Text() string { return string(utf16.Decode(e.doc)) }

// selected returns the text between anchor and head.
func (e *fakeEditor) selected() string {
	a, h := e.selection.Anchor, e.selection.Head
	if a > h {
		a, h = h, a
	}
	return e.Slice(a, h)
}
