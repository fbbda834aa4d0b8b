package sync

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikellez/lumen/errors"
	lumenbilly "github.com/mikellez/lumen/fs/billy"
	"github.com/mikellez/lumen/git"
	"github.com/mikellez/lumen/git/cache"
	"github.com/mikellez/lumen/git/testutil"
	"github.com/mikellez/lumen/internal/timer"
	"github.com/mikellez/lumen/repo"
)

var (
	notes = repo.Identity{Owner: testutil.TestOwner, Name: testutil.TestName}
	creds = repo.Credentials{
		Principal:   "ada",
		Token:       "s3cret",
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
	}
)

type fixture struct {
	engine  *Engine
	fs      *lumenbilly.FS
	cache   *cache.Manager
	remote  *testutil.MockRemote
	metrics *timer.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := lumenbilly.NewMemory()
	mgr := cache.New(fsys)
	remote := &testutil.MockRemote{
		CloneFunc: testutil.SeedClone(map[string]string{
			"README.md":      testutil.TestReadme,
			".gitattributes": testutil.TestAttributes,
		}),
	}
	metrics := timer.NewMetrics()
	engine := New(fsys, mgr, WithRemoteOperations(remote), WithRecorder(metrics))
	return &fixture{engine: engine, fs: fsys, cache: mgr, remote: remote, metrics: metrics}
}

// cloned returns a fixture whose repository has been cloned.
func cloned(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, f.engine.Clone(context.Background(), notes, creds))
	return f
}

func (f *fixture) open(t *testing.T) *git.Repository {
	t.Helper()
	r, err := git.Open(f.cache.Path(notes), git.WithFilesystem(f.fs.Unwrap()))
	require.NoError(t, err)
	return r
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(f.cache.Path(notes)+"/uploads", 0o755))
	require.NoError(t, f.fs.WriteFile(f.cache.Path(notes)+"/"+name, []byte(content), 0o644))
}

func (f *fixture) count(op string) int64 {
	stats, _ := f.metrics.Get(op)
	return stats.Count
}

func TestEngine_Clone(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		var got git.CloneOptions
		seed := f.remote.CloneFunc
		f.remote.CloneFunc = func(ctx context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			got = opts
			return seed(ctx, fs, opts)
		}

		assert.Equal(t, StateUncached, f.engine.State(notes))
		require.NoError(t, f.engine.Clone(ctx, notes, creds))

		assert.True(t, f.cache.IsCached(notes))
		assert.Equal(t, StateCloned, f.engine.State(notes))
		assert.Equal(t, 1, f.remote.Clones)

		assert.Equal(t, "/repos/acme/notes", got.Path)
		assert.Equal(t, testutil.TestRepoURL, got.URL)
		assert.Equal(t, 1, got.Depth)
		assert.True(t, got.SingleBranch)
		assert.Equal(t, "refs/heads/main", got.ReferenceName.String())
		basic, ok := got.Auth.(*githttp.BasicAuth)
		require.True(t, ok)
		assert.Equal(t, "ada", basic.Username)
		assert.Equal(t, "s3cret", basic.Password)

		name, email, err := f.open(t).User()
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", name)
		assert.Equal(t, "ada@example.com", email)

		assert.NotNil(t, f.cache.Entry(notes), "clone records access")
		assert.Equal(t, int64(1), f.count("clone"))
	})

	t.Run("already cached", func(t *testing.T) {
		f := cloned(t)

		err := f.engine.Clone(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeCloneFailed, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeAlreadyExists))
		assert.False(t, errors.IsRetryable(err))
		assert.Equal(t, 1, f.remote.Clones)
		assert.True(t, f.cache.IsCached(notes))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		f := newFixture(t)

		err := f.engine.Clone(ctx, notes, repo.Credentials{Principal: "ada"})
		require.Error(t, err)
		assert.Equal(t, errors.CodeCloneFailed, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeUnauthorized))
		assert.Equal(t, 0, f.remote.Clones)
	})

	t.Run("network failure is retryable and cleans up", func(t *testing.T) {
		f := newFixture(t)
		f.remote.CloneFunc = func(_ context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			// Leave a partial clone behind.
			require.NoError(t, fs.MkdirAll(opts.Path+"/.git/objects", 0o755))
			return nil, errors.New(errors.CodeNetwork, "connection reset")
		}

		err := f.engine.Clone(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeCloneFailed, errors.GetCode(err))
		assert.True(t, errors.IsRetryable(err))
		assert.Equal(t, "acme/notes", errors.ToJSON(err).Context["repo"])

		assert.False(t, f.cache.IsCached(notes))
		assert.Equal(t, StateUncached, f.engine.State(notes))
		assert.Equal(t, int64(1), f.count("clone"), "timer stops once on failure")

		for _, dir := range []string{f.cache.Path(notes), path.Dir(f.cache.Path(notes))} {
			ok, err := f.fs.Exists(dir)
			require.NoError(t, err)
			assert.False(t, ok, dir)
		}
	})

	t.Run("remote not found is permanent", func(t *testing.T) {
		f := newFixture(t)
		f.remote.CloneFunc = func(context.Context, billy.Filesystem, git.CloneOptions) (*git.Repository, error) {
			return nil, errors.New(errors.CodeNotFound, "remote repository not found")
		}

		err := f.engine.Clone(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeCloneFailed, errors.GetCode(err))
		assert.False(t, errors.IsRetryable(err))
	})

	t.Run("state while cloning", func(t *testing.T) {
		f := newFixture(t)
		seed := f.remote.CloneFunc
		var during State
		f.remote.CloneFunc = func(ctx context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			during = f.engine.State(notes)
			return seed(ctx, fs, opts)
		}

		require.NoError(t, f.engine.Clone(ctx, notes, creds))
		assert.Equal(t, StateCloning, during)
		assert.Equal(t, StateCloned, f.engine.State(notes))
	})
}

func TestEngine_CustomHostAndBranch(t *testing.T) {
	fsys := lumenbilly.NewMemory()
	mgr := cache.New(fsys)
	var got git.CloneOptions
	remote := &testutil.MockRemote{
		CloneFunc: func(ctx context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			got = opts
			return testutil.SeedClone(nil)(ctx, fs, opts)
		},
	}
	engine := New(fsys, mgr, WithRemoteOperations(remote), WithHost("git.example.com/"), WithBranch("trunk"), WithDepth(0))

	require.NoError(t, engine.Clone(context.Background(), notes, creds))
	assert.Equal(t, "https://git.example.com/acme/notes", got.URL)
	assert.Equal(t, "refs/heads/trunk", got.ReferenceName.String())
	assert.Equal(t, 0, got.Depth)
	assert.Equal(t, "trunk", engine.Branch())

	synced, err := engine.IsSynced(context.Background(), notes)
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestEngine_StageAndCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("commit staged file", func(t *testing.T) {
		f := cloned(t)
		f.write(t, "uploads/1700000000000.png", "png bytes")

		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/1700000000000.png"))
		hash, err := f.engine.Commit(ctx, notes, "Update uploads/1700000000000.png")
		require.NoError(t, err)
		assert.Len(t, hash, 40)

		last, err := f.open(t).LastCommit()
		require.NoError(t, err)
		assert.Equal(t, hash, last.Hash)
		assert.Equal(t, "Ada Lovelace", last.Author)
		assert.Equal(t, "ada@example.com", last.Email)
		assert.Equal(t, "Update uploads/1700000000000.png", last.Message)

		assert.Equal(t, int64(1), f.count("add"))
		assert.Equal(t, int64(1), f.count("commit"))
	})

	t.Run("credentials without email", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.engine.Clone(ctx, notes, repo.Credentials{Principal: "ada", Token: "s3cret"}))
		f.write(t, "uploads/a.txt", "hi")

		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/a.txt"))
		_, err := f.engine.Commit(ctx, notes, "Update uploads/a.txt")
		require.NoError(t, err)

		last, err := f.open(t).LastCommit()
		require.NoError(t, err)
		assert.Equal(t, "ada", last.Author)
		assert.Empty(t, last.Email)
	})

	t.Run("leading slash", func(t *testing.T) {
		f := cloned(t)
		f.write(t, "uploads/1.txt", "hi")

		require.NoError(t, f.engine.Stage(ctx, notes, "/uploads/1.txt"))
		_, err := f.engine.Commit(ctx, notes, "Update uploads/1.txt")
		require.NoError(t, err)
	})

	t.Run("nothing to commit", func(t *testing.T) {
		f := cloned(t)

		_, err := f.engine.Commit(ctx, notes, "empty")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeConflict))
		assert.Equal(t, int64(1), f.count("commit"))
	})

	t.Run("no paths", func(t *testing.T) {
		f := cloned(t)

		err := f.engine.Stage(ctx, notes)
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
	})

	t.Run("missing path", func(t *testing.T) {
		f := cloned(t)

		err := f.engine.Stage(ctx, notes, "does/not/exist.md")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
	})

	t.Run("uncached repository", func(t *testing.T) {
		f := newFixture(t)

		err := f.engine.Stage(ctx, notes, "a.md")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))

		_, err = f.engine.Commit(ctx, notes, "msg")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
	})
}

func TestEngine_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("unstages without touching the working tree", func(t *testing.T) {
		f := cloned(t)
		f.write(t, "uploads/1.txt", "hi")
		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/1.txt"))

		require.NoError(t, f.engine.Remove(ctx, notes, "uploads/1.txt"))

		ok, err := f.fs.Exists("/repos/acme/notes/uploads/1.txt")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = f.engine.Commit(ctx, notes, "Update uploads/1.txt")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeConflict), "nothing left to commit")
	})

	t.Run("path not in index", func(t *testing.T) {
		f := cloned(t)

		err := f.engine.Remove(ctx, notes, "never-added.md")
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})
}

func TestEngine_IsSynced(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh clone", func(t *testing.T) {
		f := cloned(t)
		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.True(t, synced)
	})

	t.Run("local commit ahead", func(t *testing.T) {
		f := cloned(t)
		f.write(t, "uploads/1.txt", "hi")
		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/1.txt"))
		_, err := f.engine.Commit(ctx, notes, "Update uploads/1.txt")
		require.NoError(t, err)

		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.False(t, synced)
	})

	t.Run("distinct refs", func(t *testing.T) {
		f := cloned(t)
		r := f.open(t)
		require.NoError(t, r.SetRef(git.RemoteTrackingRef("origin", "main"), "1111111111111111111111111111111111111111"))

		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.False(t, synced)
	})

	t.Run("missing remote-tracking ref", func(t *testing.T) {
		f := newFixture(t)
		f.remote.CloneFunc = func(_ context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			r, err := git.Init(opts.Path, git.WithFilesystem(fs), git.WithDefaultBranch("main"))
			if err != nil {
				return nil, err
			}
			_, err = testutil.CreateTestCommit(r, "Initial commit")
			return r, err
		}
		require.NoError(t, f.engine.Clone(ctx, notes, creds))

		_, err := f.engine.IsSynced(ctx, notes)
		require.Error(t, err)
		assert.Equal(t, errors.CodeLocalVCS, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})

	t.Run("uncached", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.IsSynced(ctx, notes)
		require.Error(t, err)
	})
}

func TestEngine_Push(t *testing.T) {
	ctx := context.Background()

	t.Run("advances remote-tracking ref", func(t *testing.T) {
		f := cloned(t)
		var got git.PushOptions
		f.remote.PushFunc = func(_ context.Context, _ *git.Repository, opts git.PushOptions) error {
			got = opts
			assert.Equal(t, StateSyncing, f.engine.State(notes))
			return nil
		}

		f.write(t, "uploads/1.txt", "hi")
		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/1.txt"))
		hash, err := f.engine.Commit(ctx, notes, "Update uploads/1.txt")
		require.NoError(t, err)

		require.NoError(t, f.engine.Push(ctx, notes, creds))
		assert.Equal(t, 1, f.remote.Pushes)
		assert.Equal(t, []string{"refs/heads/main:refs/heads/main"}, got.RefSpecs)
		assert.NotNil(t, got.Auth)

		tracking, err := f.open(t).ResolveRef("refs/remotes/origin/main")
		require.NoError(t, err)
		assert.Equal(t, hash, tracking)

		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.True(t, synced)
		assert.Equal(t, StateCloned, f.engine.State(notes))
	})

	t.Run("rejected push", func(t *testing.T) {
		f := cloned(t)
		f.remote.PushFunc = func(context.Context, *git.Repository, git.PushOptions) error {
			return errors.New(errors.CodeConflict, "local and remote histories have diverged")
		}

		f.write(t, "uploads/1.txt", "hi")
		require.NoError(t, f.engine.Stage(ctx, notes, "uploads/1.txt"))
		_, err := f.engine.Commit(ctx, notes, "Update uploads/1.txt")
		require.NoError(t, err)

		err = f.engine.Push(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeSyncFailed, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeConflict))

		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.False(t, synced)
		assert.Equal(t, int64(1), f.count("push"))
		assert.Equal(t, StateCloned, f.engine.State(notes))
	})

	t.Run("uncached", func(t *testing.T) {
		f := newFixture(t)
		err := f.engine.Push(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeSyncFailed, errors.GetCode(err))
		assert.Equal(t, 0, f.remote.Pushes)
	})
}

func TestEngine_Pull(t *testing.T) {
	ctx := context.Background()

	t.Run("fast-forward", func(t *testing.T) {
		f := cloned(t)
		var got git.PullOptions
		var upstream string
		f.remote.PullFunc = func(_ context.Context, r *git.Repository, opts git.PullOptions) error {
			got = opts
			assert.Equal(t, StateSyncing, f.engine.State(notes))
			// Simulate a commit arriving from the remote.
			hash, err := testutil.CreateTestCommitWithFile(r, "remote.md", "from upstream", "Remote change")
			if err != nil {
				return err
			}
			upstream = hash
			return r.SetRef(git.RemoteTrackingRef("origin", "main"), hash)
		}

		before := f.cache.Entry(notes).LastAccess
		time.Sleep(time.Millisecond)

		require.NoError(t, f.engine.Pull(ctx, notes, creds))
		assert.Equal(t, "refs/heads/main", got.ReferenceName.String())
		assert.True(t, got.SingleBranch)
		assert.NotNil(t, got.Auth)

		head, err := f.open(t).Head()
		require.NoError(t, err)
		assert.Equal(t, upstream, head)

		synced, err := f.engine.IsSynced(ctx, notes)
		require.NoError(t, err)
		assert.True(t, synced)
		assert.True(t, f.cache.Entry(notes).LastAccess.After(before))
	})

	t.Run("conflict", func(t *testing.T) {
		f := cloned(t)
		f.remote.PullFunc = func(context.Context, *git.Repository, git.PullOptions) error {
			return errors.New(errors.CodeConflict, "local and remote histories have diverged")
		}

		err := f.engine.Pull(ctx, notes, creds)
		require.Error(t, err)
		assert.Equal(t, errors.CodeSyncFailed, errors.GetCode(err))
		assert.True(t, errors.HasCode(err, errors.CodeConflict))
		assert.False(t, errors.IsRetryable(err))
	})

	t.Run("network failure", func(t *testing.T) {
		f := cloned(t)
		f.remote.PullFunc = func(context.Context, *git.Repository, git.PullOptions) error {
			return errors.New(errors.CodeNetwork, "connection reset")
		}

		err := f.engine.Pull(ctx, notes, creds)
		require.Error(t, err)
		assert.True(t, errors.IsRetryable(err))
		assert.Equal(t, int64(1), f.count("pull"))
	})
}

func TestEngine_Fetch(t *testing.T) {
	f := cloned(t)
	var got git.FetchOptions
	f.remote.FetchFunc = func(_ context.Context, _ *git.Repository, opts git.FetchOptions) error {
		got = opts
		return nil
	}

	require.NoError(t, f.engine.Fetch(context.Background(), notes, creds))
	assert.Equal(t, []string{"+refs/heads/main:refs/remotes/origin/main"}, got.RefSpecs)
	assert.Equal(t, 1, f.remote.Fetches)

	f.remote.FetchFunc = func(context.Context, *git.Repository, git.FetchOptions) error {
		return errors.New(errors.CodeUnauthorized, "authentication required")
	}
	err := f.engine.Fetch(context.Background(), notes, creds)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSyncFailed, errors.GetCode(err))
	assert.False(t, errors.IsRetryable(err))
}

func TestEngine_RemoteURL(t *testing.T) {
	ctx := context.Background()

	f := cloned(t)
	url, err := f.engine.RemoteURL(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestRepoURL, url)

	t.Run("unset", func(t *testing.T) {
		f := newFixture(t)
		f.remote.CloneFunc = func(_ context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
			return git.Init(opts.Path, git.WithFilesystem(fs))
		}
		require.NoError(t, f.engine.Clone(ctx, notes, creds))

		url, err := f.engine.RemoteURL(ctx, notes)
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uncached", StateUncached.String())
	assert.Equal(t, "cloning", StateCloning.String())
	assert.Equal(t, "cloned", StateCloned.String())
	assert.Equal(t, "syncing", StateSyncing.String())
	assert.Equal(t, "unknown", State(42).String())
}
