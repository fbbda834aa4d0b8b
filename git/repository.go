package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// MetadataDir is the name of the repository metadata directory inside a
// working tree.
const MetadataDir = ".git"

func applyOptions(opts []RepositoryOption) *repositoryOptions {
	options := &repositoryOptions{
		fs:        osfs.New("/"),
		remoteOps: &defaultRemoteOps{},
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// scope returns the working tree filesystem for path and the storage kept
// in its metadata directory.
func scope(fs billy.Filesystem, path string) (billy.Filesystem, *filesystem.Storage, error) {
	scopedFs, err := fs.Chroot(path)
	if err != nil {
		return nil, nil, wrapError(err, "failed to scope filesystem to path")
	}
	dotGitFs, err := scopedFs.Chroot(MetadataDir)
	if err != nil {
		return nil, nil, wrapError(err, "failed to scope filesystem to "+MetadataDir)
	}
	return scopedFs, filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault()), nil
}

// Init creates an empty repository at path.
//
//	repo, err := git.Init("/repos/acme/notes", git.WithFilesystem(memfs.New()))
func Init(path string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	if err := options.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}

	scopedFs, storage, err := scope(options.fs, path)
	if err != nil {
		return nil, err
	}

	initOpts := gogit.InitOptions{}
	if options.defaultBranch != "" {
		initOpts.DefaultBranch = plumbing.NewBranchReferenceName(options.defaultBranch)
	}
	repo, err := gogit.InitWithOptions(storage, scopedFs, initOpts)
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}

	return &Repository{path: path, repo: repo, fs: scopedFs, remote: options.remoteOps}, nil
}

// Open opens the repository at path. The metadata directory must exist.
func Open(path string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	scopedFs, storage, err := scope(options.fs, path)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.Open(storage, scopedFs)
	if err != nil {
		return nil, wrapError(err, "failed to open repository")
	}

	return &Repository{path: path, repo: repo, fs: scopedFs, remote: options.remoteOps}, nil
}

// Clone clones url into path. The returned repository uses the same
// RemoteOperations for later fetch, pull and push calls.
//
//	repo, err := git.Clone(ctx, "/repos/acme/notes", "https://github.com/acme/notes",
//	    git.WithFilesystem(fs), git.WithDepth(1), git.WithSingleBranch())
func Clone(ctx context.Context, path, url string, opts ...RepositoryOption) (*Repository, error) {
	options := applyOptions(opts)

	cloneOpts := CloneOptions{
		Path:          path,
		URL:           url,
		RemoteName:    options.remoteName,
		Auth:          options.auth,
		Depth:         options.depth,
		SingleBranch:  options.singleBranch,
		ReferenceName: options.referenceName,
	}
	if err := cloneOpts.Validate(); err != nil {
		return nil, err
	}

	repo, err := options.remoteOps.Clone(ctx, options.fs, cloneOpts)
	if err != nil {
		return nil, err //nolint:wrapcheck // already classified by the implementation
	}
	repo.remote = options.remoteOps
	return repo, nil
}

// Path returns the repository path within its filesystem.
func (r *Repository) Path() string {
	return r.path
}

// Underlying returns the go-git repository for operations this wrapper
// does not cover.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Filesystem returns the billy filesystem scoped to the working tree.
func (r *Repository) Filesystem() billy.Filesystem {
	return r.fs
}
