package git

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultRemoteName is the remote used when options leave it empty.
const DefaultRemoteName = "origin"

// Repository wraps a go-git repository together with the billy filesystem
// scoped to its working tree.
type Repository struct {
	path   string
	repo   *gogit.Repository
	fs     billy.Filesystem
	remote RemoteOperations
}

// Auth is satisfied by go-git's transport.AuthMethod.
type Auth interface{}

// CloneOptions configures a clone into Path of the filesystem passed to
// RemoteOperations.Clone.
type CloneOptions struct {
	Path          string
	URL           string
	RemoteName    string // Default: "origin"
	Auth          Auth
	Depth         int // 0 for a full clone
	SingleBranch  bool
	ReferenceName plumbing.ReferenceName
}

// Validate checks the options before any I/O happens.
func (o CloneOptions) Validate() error {
	if o.Path == "" {
		return wrapError(fmt.Errorf("path is required"), "invalid clone options")
	}
	if o.URL == "" {
		return wrapError(gogit.ErrMissingURL, "invalid clone options")
	}
	if o.Depth < 0 {
		return wrapError(fmt.Errorf("depth must not be negative: %d", o.Depth), "invalid clone options")
	}
	return nil
}

// FetchOptions configures fetch operations.
type FetchOptions struct {
	RemoteName string // Default: "origin"
	Auth       Auth
	Depth      int
	RefSpecs   []string
}

// Validate checks the options before any I/O happens.
func (o FetchOptions) Validate() error {
	if o.Depth < 0 {
		return wrapError(fmt.Errorf("depth must not be negative: %d", o.Depth), "invalid fetch options")
	}
	return validateRefSpecs(o.RefSpecs, "invalid fetch options")
}

// PullOptions configures a fetch followed by a fast-forward merge.
type PullOptions struct {
	RemoteName    string // Default: "origin"
	ReferenceName plumbing.ReferenceName
	SingleBranch  bool
	Depth         int
	Auth          Auth
}

// Validate checks the options before any I/O happens.
func (o PullOptions) Validate() error {
	if o.Depth < 0 {
		return wrapError(fmt.Errorf("depth must not be negative: %d", o.Depth), "invalid pull options")
	}
	return nil
}

// PushOptions configures push operations.
type PushOptions struct {
	RemoteName string // Default: "origin"
	RefSpecs   []string
	Auth       Auth
	Force      bool
}

// Validate checks the options before any I/O happens.
func (o PushOptions) Validate() error {
	return validateRefSpecs(o.RefSpecs, "invalid push options")
}

// CommitOptions configures commit creation.
type CommitOptions struct {
	Author     string
	Email      string
	Message    string
	AllowEmpty bool
}

// Validate checks that author and message are set. Email may be empty.
func (o CommitOptions) Validate() error {
	switch {
	case o.Author == "":
		return wrapError(gogit.ErrMissingAuthor, "invalid commit options")
	case o.Message == "":
		return wrapError(fmt.Errorf("message is required"), "invalid commit options")
	}
	return nil
}

func validateRefSpecs(specs []string, context string) error {
	for _, s := range specs {
		if err := config.RefSpec(s).Validate(); err != nil {
			return wrapError(fmt.Errorf("refspec %q: %w", s, err), context)
		}
	}
	return nil
}

func remoteName(name string) string {
	if name == "" {
		return DefaultRemoteName
	}
	return name
}

// RepositoryOption configures Init, Open and Clone.
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	fs            billy.Filesystem
	remoteOps     RemoteOperations
	auth          Auth
	remoteName    string
	depth         int
	singleBranch  bool
	referenceName plumbing.ReferenceName
	defaultBranch string
}

// WithFilesystem sets the billy filesystem holding the repository. The
// repository path is resolved inside it. Defaults to the host filesystem.
func WithFilesystem(fs billy.Filesystem) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.fs = fs
	}
}

// WithRemoteOperations sets the implementation used for network
// operations. Tests use it to avoid network access.
func WithRemoteOperations(ops RemoteOperations) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.remoteOps = ops
	}
}

// WithAuth sets authentication for Clone.
func WithAuth(auth Auth) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.auth = auth
	}
}

// WithRemoteName sets the name of the remote created by Clone.
func WithRemoteName(name string) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.remoteName = name
	}
}

// WithDepth sets the depth for shallow clones. 0 performs a full clone.
func WithDepth(depth int) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.depth = depth
	}
}

// WithSingleBranch limits the clone to a single branch.
func WithSingleBranch() RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.singleBranch = true
	}
}

// WithReferenceName sets the branch to clone.
func WithReferenceName(ref plumbing.ReferenceName) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.referenceName = ref
	}
}

// WithDefaultBranch sets the branch HEAD points to after Init. Defaults to
// "master", matching go-git.
func WithDefaultBranch(branch string) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.defaultBranch = branch
	}
}
