package git

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/mikellez/lumen/errors"
)

// mockRemoteOps is a RemoteOperations driven by function fields.
type mockRemoteOps struct {
	cloneFunc func(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error)
	fetchFunc func(ctx context.Context, repo *Repository, opts FetchOptions) error
	pullFunc  func(ctx context.Context, repo *Repository, opts PullOptions) error
	pushFunc  func(ctx context.Context, repo *Repository, opts PushOptions) error
}

func (m *mockRemoteOps) Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error) {
	if m.cloneFunc != nil {
		return m.cloneFunc(ctx, fs, opts)
	}
	return nil, platformerrors.New(platformerrors.CodeInternal, "mock clone not implemented")
}

func (m *mockRemoteOps) Fetch(ctx context.Context, repo *Repository, opts FetchOptions) error {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeInternal, "mock fetch not implemented")
}

func (m *mockRemoteOps) Pull(ctx context.Context, repo *Repository, opts PullOptions) error {
	if m.pullFunc != nil {
		return m.pullFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeInternal, "mock pull not implemented")
}

func (m *mockRemoteOps) Push(ctx context.Context, repo *Repository, opts PushOptions) error {
	if m.pushFunc != nil {
		return m.pushFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeInternal, "mock push not implemented")
}

// createTestRepository creates an in-memory repository at /repos/acme/notes
// with one commit containing test.txt. It returns the repository and the
// root filesystem holding it.
func createTestRepository(t *testing.T, opts ...RepositoryOption) (*Repository, billy.Filesystem) {
	t.Helper()

	fs := memfs.New()
	repo, err := Init("/repos/acme/notes", append([]RepositoryOption{WithFilesystem(fs), WithDefaultBranch("main")}, opts...)...)
	require.NoError(t, err)

	writeFile(t, repo, "test.txt", "test content")
	require.NoError(t, repo.Add("test.txt"))

	_, err = repo.CreateCommit(CommitOptions{
		Author:  "Test User",
		Email:   "test@example.com",
		Message: "Initial commit",
	})
	require.NoError(t, err)

	return repo, fs
}

func writeFile(t *testing.T, repo *Repository, name, content string) {
	t.Helper()

	f, err := repo.Filesystem().Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
