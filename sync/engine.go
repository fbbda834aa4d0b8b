package sync

import (
	"context"
	"log/slog"
	"strings"
	gosync "sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/fs/core"
	"github.com/mikellez/lumen/git"
	"github.com/mikellez/lumen/git/cache"
	"github.com/mikellez/lumen/internal/timer"
	"github.com/mikellez/lumen/repo"
)

// Filesystem is the cache filesystem. go-git needs the billy view of it.
type Filesystem interface {
	core.FS
	Unwrap() billy.Filesystem
}

// Engine performs repository synchronization against the cache.
type Engine struct {
	fs       Filesystem
	cache    *cache.Manager
	remote   git.RemoteOperations
	logger   *slog.Logger
	recorder timer.Recorder
	host     string
	branch   string
	depth    int

	mu     gosync.Mutex
	states map[string]State // in-flight operations only
}

// New creates an engine over the cache managed by mgr. fsys must be the
// filesystem mgr was created with.
func New(fsys Filesystem, mgr *cache.Manager, opts ...Option) *Engine {
	e := &Engine{
		fs:     fsys,
		cache:  mgr,
		logger: slog.New(slog.DiscardHandler),
		host:   DefaultHost,
		branch: DefaultBranch,
		depth:  DefaultDepth,
		states: make(map[string]State),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Branch returns the tracked branch.
func (e *Engine) Branch() string {
	return e.branch
}

// URL returns the canonical remote URL of id.
func (e *Engine) URL(id repo.Identity) string {
	return "https://" + strings.TrimSuffix(e.host, "/") + "/" + id.Owner + "/" + id.Name
}

// State reports the lifecycle state of id.
func (e *Engine) State(id repo.Identity) State {
	e.mu.Lock()
	state, ok := e.states[stateKey(id)]
	e.mu.Unlock()
	if ok {
		return state
	}
	if e.cache.IsCached(id) {
		return StateCloned
	}
	return StateUncached
}

func stateKey(id repo.Identity) string {
	return id.Sanitized().String()
}

// enter marks an operation in flight and returns the function that clears it.
func (e *Engine) enter(id repo.Identity, state State) func() {
	key := stateKey(id)
	e.mu.Lock()
	e.states[key] = state
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.states, key)
		e.mu.Unlock()
	}
}

func (e *Engine) startTimer(op string, id repo.Identity) *timer.Timer {
	opts := []timer.Option{timer.WithLogger(e.logger), timer.WithAttrs("repo", id.String())}
	if e.recorder != nil {
		opts = append(opts, timer.WithRecorder(e.recorder))
	}
	return timer.Start(op, opts...)
}

func (e *Engine) repoOptions(extra ...git.RepositoryOption) []git.RepositoryOption {
	opts := []git.RepositoryOption{git.WithFilesystem(e.fs.Unwrap())}
	if e.remote != nil {
		opts = append(opts, git.WithRemoteOperations(e.remote))
	}
	return append(opts, extra...)
}

// open opens the cached repository of id.
func (e *Engine) open(id repo.Identity) (*git.Repository, error) {
	if !e.cache.IsCached(id) {
		return nil, errors.WithContext(
			errors.Newf(errors.CodeNotFound, "repository %s is not cached", id),
			"repo", id.String())
	}
	return git.Open(e.cache.Path(id), e.repoOptions()...) //nolint:wrapcheck // classified by the git package
}

func fail(err error, code errors.ErrorCode, op string, id repo.Identity) error {
	return errors.WrapWithContext(err, code, op+" failed", map[string]interface{}{
		"repo": id.String(),
		"op":   op,
	})
}

func auth(creds repo.Credentials) git.Auth {
	return git.TokenAuth(creds.Principal, creds.Token)
}

// Clone makes a shallow, single-branch clone of id into the cache and
// sets the commit author from creds. A failed clone removes whatever it
// left behind so it can be retried.
func (e *Engine) Clone(ctx context.Context, id repo.Identity, creds repo.Credentials) error {
	t := e.startTimer("clone", id)
	defer t.Stop()

	if err := creds.Validate(); err != nil {
		return fail(err, errors.CodeCloneFailed, "clone", id)
	}
	if e.cache.IsCached(id) {
		return fail(errors.Newf(errors.CodeAlreadyExists, "repository %s is already cached", id),
			errors.CodeCloneFailed, "clone", id)
	}

	dir := e.cache.Path(id)
	if err := e.cache.EnsureDirectory(dir); err != nil {
		return fail(err, errors.CodeCloneFailed, "clone", id)
	}

	done := e.enter(id, StateCloning)
	defer done()

	r, err := git.Clone(ctx, dir, e.URL(id), e.repoOptions(
		git.WithAuth(auth(creds)),
		git.WithDepth(e.depth),
		git.WithSingleBranch(),
		git.WithReferenceName(plumbing.NewBranchReferenceName(e.branch)),
	)...)
	if err != nil {
		e.cache.Remove(id)
		return fail(err, errors.CodeCloneFailed, "clone", id)
	}

	name, email := creds.Author()
	if err := r.SetUser(name, email); err != nil {
		e.cache.Remove(id)
		return fail(err, errors.CodeCloneFailed, "clone", id)
	}

	e.cache.Touch(id)
	e.logger.Info("cloned repository", "repo", id.String(), "url", e.URL(id))
	return nil
}

// Fetch updates the remote-tracking branch without touching the working
// tree.
func (e *Engine) Fetch(ctx context.Context, id repo.Identity, creds repo.Credentials) error {
	t := e.startTimer("fetch", id)
	defer t.Stop()

	r, err := e.open(id)
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "fetch", id)
	}

	done := e.enter(id, StateSyncing)
	defer done()

	err = r.Fetch(ctx, git.FetchOptions{
		Auth: auth(creds),
		RefSpecs: []string{
			"+" + git.BranchRef(e.branch) + ":" + git.RemoteTrackingRef(git.DefaultRemoteName, e.branch),
		},
	})
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "fetch", id)
	}
	return nil
}

// Pull fetches the tracked branch and fast-forwards the working tree.
// Diverged histories fail; they are not merged.
func (e *Engine) Pull(ctx context.Context, id repo.Identity, creds repo.Credentials) error {
	t := e.startTimer("pull", id)
	defer t.Stop()

	r, err := e.open(id)
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "pull", id)
	}

	done := e.enter(id, StateSyncing)
	defer done()

	err = r.Pull(ctx, git.PullOptions{
		ReferenceName: plumbing.NewBranchReferenceName(e.branch),
		SingleBranch:  true,
		Auth:          auth(creds),
	})
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "pull", id)
	}

	e.cache.Touch(id)
	return nil
}

// Push pushes the tracked branch and advances the remote-tracking branch
// to the pushed commit.
func (e *Engine) Push(ctx context.Context, id repo.Identity, creds repo.Credentials) error {
	t := e.startTimer("push", id)
	defer t.Stop()

	r, err := e.open(id)
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "push", id)
	}

	done := e.enter(id, StateSyncing)
	defer done()

	local := git.BranchRef(e.branch)
	err = r.Push(ctx, git.PushOptions{
		Auth:     auth(creds),
		RefSpecs: []string{local + ":" + local},
	})
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "push", id)
	}

	head, err := r.ResolveRef(local)
	if err != nil {
		return fail(err, errors.CodeSyncFailed, "push", id)
	}
	if err := r.SetRef(git.RemoteTrackingRef(git.DefaultRemoteName, e.branch), head); err != nil {
		return fail(err, errors.CodeSyncFailed, "push", id)
	}

	e.cache.Touch(id)
	return nil
}

// Stage adds working tree paths to the index.
func (e *Engine) Stage(_ context.Context, id repo.Identity, paths ...string) error {
	t := e.startTimer("add", id)
	defer t.Stop()

	if len(paths) == 0 {
		return fail(errors.New(errors.CodeInvalidInput, "no paths to stage"), errors.CodeLocalVCS, "add", id)
	}

	r, err := e.open(id)
	if err != nil {
		return fail(err, errors.CodeLocalVCS, "add", id)
	}
	if err := r.Add(paths...); err != nil {
		return fail(err, errors.CodeLocalVCS, "add", id)
	}
	return nil
}

// Remove drops path from the index. The working tree is untouched.
func (e *Engine) Remove(_ context.Context, id repo.Identity, path string) error {
	t := e.startTimer("remove", id)
	defer t.Stop()

	r, err := e.open(id)
	if err != nil {
		return fail(err, errors.CodeLocalVCS, "remove", id)
	}
	if err := r.Unstage(path); err != nil {
		return fail(err, errors.CodeLocalVCS, "remove", id)
	}
	return nil
}

// Commit commits the index with the author configured at clone time and
// returns the new commit hash. A commit without changes fails.
func (e *Engine) Commit(_ context.Context, id repo.Identity, message string) (string, error) {
	t := e.startTimer("commit", id)
	defer t.Stop()

	r, err := e.open(id)
	if err != nil {
		return "", fail(err, errors.CodeLocalVCS, "commit", id)
	}

	name, email, err := r.User()
	if err != nil {
		return "", fail(err, errors.CodeLocalVCS, "commit", id)
	}

	hash, err := r.CreateCommit(git.CommitOptions{
		Author:  name,
		Email:   email,
		Message: message,
	})
	if err != nil {
		return "", fail(err, errors.CodeLocalVCS, "commit", id)
	}

	e.cache.Touch(id)
	e.logger.Info("committed", "repo", id.String(), "hash", hash)
	return hash, nil
}

// IsSynced reports whether the tracked branch and its remote-tracking
// branch point at the same commit. Both must exist.
func (e *Engine) IsSynced(_ context.Context, id repo.Identity) (bool, error) {
	r, err := e.open(id)
	if err != nil {
		return false, fail(err, errors.CodeLocalVCS, "status", id)
	}

	local, err := r.ResolveRef(git.BranchRef(e.branch))
	if err != nil {
		return false, fail(err, errors.CodeLocalVCS, "status", id)
	}
	remote, err := r.ResolveRef(git.RemoteTrackingRef(git.DefaultRemoteName, e.branch))
	if err != nil {
		return false, fail(err, errors.CodeLocalVCS, "status", id)
	}

	return local == remote, nil
}

// RemoteURL returns the URL of the origin remote, or "" when unset.
func (e *Engine) RemoteURL(_ context.Context, id repo.Identity) (string, error) {
	r, err := e.open(id)
	if err != nil {
		return "", fail(err, errors.CodeLocalVCS, "remote", id)
	}
	url, err := r.RemoteURL(git.DefaultRemoteName)
	if err != nil {
		return "", fail(err, errors.CodeLocalVCS, "remote", id)
	}
	return url, nil
}
