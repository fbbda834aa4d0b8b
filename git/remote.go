package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RemoteOperations performs the network side of the repository lifecycle.
// The default implementation delegates to go-git; tests supply mocks.
type RemoteOperations interface {
	// Clone clones opts.URL into opts.Path of fs.
	Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error)

	// Fetch downloads objects and refs from the remote.
	Fetch(ctx context.Context, repo *Repository, opts FetchOptions) error

	// Pull fetches and fast-forwards the checked out branch.
	Pull(ctx context.Context, repo *Repository, opts PullOptions) error

	// Push uploads objects and refs to the remote.
	Push(ctx context.Context, repo *Repository, opts PushOptions) error
}

// defaultRemoteOps implements RemoteOperations with go-git.
type defaultRemoteOps struct{}

func authMethod(auth Auth) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}
	method, ok := auth.(transport.AuthMethod)
	if !ok {
		return nil, wrapError(fmt.Errorf("invalid auth type %T", auth), "failed to convert auth")
	}
	return method, nil
}

func (d *defaultRemoteOps) Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	auth, err := authMethod(opts.Auth)
	if err != nil {
		return nil, err
	}

	if err := fs.MkdirAll(opts.Path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create clone directory")
	}

	scopedFs, storage, err := scope(fs, opts.Path)
	if err != nil {
		return nil, err
	}

	cloneOpts := &gogit.CloneOptions{
		URL:           opts.URL,
		Auth:          auth,
		RemoteName:    remoteName(opts.RemoteName),
		ReferenceName: opts.ReferenceName,
		SingleBranch:  opts.SingleBranch,
		Depth:         opts.Depth,
	}
	if opts.SingleBranch {
		cloneOpts.Tags = gogit.NoTags
	}

	repo, err := gogit.CloneContext(ctx, storage, scopedFs, cloneOpts)
	if err != nil {
		return nil, wrapError(err, "failed to clone repository")
	}

	return &Repository{path: opts.Path, repo: repo, fs: scopedFs, remote: d}, nil
}

func (d *defaultRemoteOps) Fetch(ctx context.Context, repo *Repository, opts FetchOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	auth, err := authMethod(opts.Auth)
	if err != nil {
		return err
	}

	fetchOpts := &gogit.FetchOptions{
		RemoteName: remoteName(opts.RemoteName),
		Auth:       auth,
		Depth:      opts.Depth,
	}
	for _, spec := range opts.RefSpecs {
		fetchOpts.RefSpecs = append(fetchOpts.RefSpecs, config.RefSpec(spec))
	}

	err = repo.repo.FetchContext(ctx, fetchOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to fetch from remote")
	}
	return nil
}

func (d *defaultRemoteOps) Pull(ctx context.Context, repo *Repository, opts PullOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	auth, err := authMethod(opts.Auth)
	if err != nil {
		return err
	}

	wt, err := repo.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	err = wt.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    remoteName(opts.RemoteName),
		ReferenceName: opts.ReferenceName,
		SingleBranch:  opts.SingleBranch,
		Depth:         opts.Depth,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to pull from remote")
	}
	return nil
}

func (d *defaultRemoteOps) Push(ctx context.Context, repo *Repository, opts PushOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	auth, err := authMethod(opts.Auth)
	if err != nil {
		return err
	}

	pushOpts := &gogit.PushOptions{
		RemoteName: remoteName(opts.RemoteName),
		Auth:       auth,
		Force:      opts.Force,
	}
	for _, spec := range opts.RefSpecs {
		pushOpts.RefSpecs = append(pushOpts.RefSpecs, config.RefSpec(spec))
	}

	err = repo.repo.PushContext(ctx, pushOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to push to remote")
	}
	return nil
}

// Fetch downloads objects and refs from the remote without touching the
// working tree.
func (r *Repository) Fetch(ctx context.Context, opts FetchOptions) error {
	return r.remote.Fetch(ctx, r, opts) //nolint:wrapcheck // classified by the implementation
}

// Pull fetches from the remote and fast-forwards the checked out branch.
// Diverged histories fail with CONFLICT; they are never merged or rebased.
func (r *Repository) Pull(ctx context.Context, opts PullOptions) error {
	return r.remote.Pull(ctx, r, opts) //nolint:wrapcheck // classified by the implementation
}

// Push uploads local commits. A rejected non-fast-forward update fails with
// CONFLICT unless Force is set.
func (r *Repository) Push(ctx context.Context, opts PushOptions) error {
	return r.remote.Push(ctx, r, opts) //nolint:wrapcheck // classified by the implementation
}

// RemoteURL returns the first URL configured for the named remote, or ""
// if the remote is not configured.
func (r *Repository) RemoteURL(name string) (string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", wrapError(err, "failed to read repository config")
	}
	remote, ok := cfg.Remotes[remoteName(name)]
	if !ok || len(remote.URLs) == 0 {
		return "", nil
	}
	return remote.URLs[0], nil
}

// AddRemote registers a remote with a single URL.
func (r *Repository) AddRemote(name, url string) error {
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return wrapError(err, "failed to add remote")
	}
	return nil
}
