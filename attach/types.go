package attach

import (
	"context"

	"github.com/mikellez/lumen/repo"
)

// UploadsDir is the directory attached files are written to, relative to
// the repository root.
const UploadsDir = "/uploads"

// Upload is a file selected by the user.
type Upload struct {
	// Name is the original file name, such as "cat.png".
	Name string
	// Type is the MIME type reported by the source. When empty it is
	// derived from the extension.
	Type    string
	Content []byte
}

// Session is the authenticated context an attach runs in.
type Session struct {
	Repo        repo.Identity
	Credentials repo.Credentials
}

func (s Session) ready() bool {
	return !s.Repo.IsZero() && s.Credentials.Validate() == nil
}

// Change replaces the document range [From, To) with Insert.
type Change struct {
	From   int
	To     int
	Insert string
}

// Selection is the editor selection after a change.
type Selection struct {
	Anchor int
	Head   int
}

// Editor is the document the reference is inserted into. Offsets are
// UTF-16 code units.
type Editor interface {
	// Selection returns the main selection range.
	Selection() (from, to int)
	// Slice returns the document text in [from, to).
	Slice(from, to int) string
	Dispatch(change Change, selection Selection)
	Focus()
}

// Connectivity reports whether the network is reachable.
type Connectivity interface {
	Online() bool
}

// ConnectivityFunc adapts a function to Connectivity.
type ConnectivityFunc func() bool

// Online calls f.
func (f ConnectivityFunc) Online() bool { return f() }

// Online is a Connectivity that is always online.
var Online Connectivity = ConnectivityFunc(func() bool { return true })

// Offline is a Connectivity that is never online.
var Offline Connectivity = ConnectivityFunc(func() bool { return false })

// Directories resolves and creates repository directories.
// *cache.Manager implements it.
type Directories interface {
	Path(id repo.Identity) string
	EnsureDirectory(dir string) error
}

// Writer writes file content into a repository working tree.
// *lfs.Store implements it.
type Writer interface {
	WriteFile(ctx context.Context, id repo.Identity, p string, content []byte, creds repo.Credentials) error
}

// Committer records written files in the repository history.
// *sync.Engine implements it.
type Committer interface {
	Stage(ctx context.Context, id repo.Identity, paths ...string) error
	Commit(ctx context.Context, id repo.Identity, message string) (string, error)
}

// Result describes a completed attach.
type Result struct {
	// Path is the file location relative to the repository root, with a
	// leading slash.
	Path      string
	Markdown  string
	Change    Change
	Selection Selection
}
