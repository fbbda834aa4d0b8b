// Package testutil provides in-memory repositories and a scriptable
// RemoteOperations for tests that must not touch the network.
package testutil

import (
	"context"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	platformerrors "github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/git"
)

// NewMemoryRepo creates an empty repository at "/" of a fresh memfs.
func NewMemoryRepo() (*git.Repository, billy.Filesystem, error) {
	fs := memfs.New()
	repo, err := git.Init("/", git.WithFilesystem(fs))
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // test utility
	}
	return repo, fs, nil
}

// CreateTestFile writes content to path, creating parent directories.
func CreateTestFile(fs billy.Filesystem, name, content string) error {
	if err := fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return err //nolint:wrapcheck // test utility
	}
	file, err := fs.Create(name)
	if err != nil {
		return err //nolint:wrapcheck // test utility
	}
	defer func() { _ = file.Close() }()

	_, err = file.Write([]byte(content))
	return err //nolint:wrapcheck // test utility
}

// CreateTestCommit creates an empty commit with the test author.
func CreateTestCommit(repo *git.Repository, message string) (string, error) {
	return repo.CreateCommit(git.CommitOptions{ //nolint:wrapcheck // test utility
		Author:     TestAuthor,
		Email:      TestEmail,
		Message:    message,
		AllowEmpty: true,
	})
}

// CreateTestCommitWithFile writes a file into the working tree, stages it
// and commits it.
func CreateTestCommitWithFile(repo *git.Repository, name, content, message string) (string, error) {
	if err := CreateTestFile(repo.Filesystem(), name, content); err != nil {
		return "", err
	}
	if err := repo.Add(name); err != nil {
		return "", err //nolint:wrapcheck // test utility
	}
	return repo.CreateCommit(git.CommitOptions{ //nolint:wrapcheck // test utility
		Author:  TestAuthor,
		Email:   TestEmail,
		Message: message,
	})
}

// SeedClone returns a clone function that behaves like a successful
// shallow clone: it initializes a repository at opts.Path, commits files,
// configures the origin remote and points the remote-tracking branch at
// the new commit.
func SeedClone(files map[string]string) func(context.Context, billy.Filesystem, git.CloneOptions) (*git.Repository, error) {
	return func(_ context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
		branch := TestBranch
		if opts.ReferenceName != "" {
			branch = opts.ReferenceName.Short()
		}

		repo, err := git.Init(opts.Path, git.WithFilesystem(fs), git.WithDefaultBranch(branch))
		if err != nil {
			return nil, err //nolint:wrapcheck // test utility
		}
		for name, content := range files {
			if err := CreateTestFile(repo.Filesystem(), name, content); err != nil {
				return nil, err
			}
			if err := repo.Add(name); err != nil {
				return nil, err //nolint:wrapcheck // test utility
			}
		}
		hash, err := repo.CreateCommit(git.CommitOptions{
			Author:     TestAuthor,
			Email:      TestEmail,
			Message:    "Initial commit",
			AllowEmpty: true,
		})
		if err != nil {
			return nil, err //nolint:wrapcheck // test utility
		}
		if err := repo.AddRemote(git.DefaultRemoteName, opts.URL); err != nil {
			return nil, err //nolint:wrapcheck // test utility
		}
		if err := repo.SetRef(git.RemoteTrackingRef(git.DefaultRemoteName, branch), hash); err != nil {
			return nil, err //nolint:wrapcheck // test utility
		}
		return repo, nil
	}
}

// MockRemote is a RemoteOperations whose behavior is set per test through
// function fields. Unset operations fail with NOT_IMPLEMENTED. Calls are
// counted.
type MockRemote struct {
	CloneFunc func(ctx context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error)
	FetchFunc func(ctx context.Context, repo *git.Repository, opts git.FetchOptions) error
	PullFunc  func(ctx context.Context, repo *git.Repository, opts git.PullOptions) error
	PushFunc  func(ctx context.Context, repo *git.Repository, opts git.PushOptions) error

	Clones, Fetches, Pulls, Pushes int
}

var _ git.RemoteOperations = (*MockRemote)(nil)

func (m *MockRemote) Clone(ctx context.Context, fs billy.Filesystem, opts git.CloneOptions) (*git.Repository, error) {
	m.Clones++
	if m.CloneFunc != nil {
		return m.CloneFunc(ctx, fs, opts)
	}
	return nil, platformerrors.New(platformerrors.CodeNotImplemented, "mock clone not implemented")
}

func (m *MockRemote) Fetch(ctx context.Context, repo *git.Repository, opts git.FetchOptions) error {
	m.Fetches++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeNotImplemented, "mock fetch not implemented")
}

func (m *MockRemote) Pull(ctx context.Context, repo *git.Repository, opts git.PullOptions) error {
	m.Pulls++
	if m.PullFunc != nil {
		return m.PullFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeNotImplemented, "mock pull not implemented")
}

func (m *MockRemote) Push(ctx context.Context, repo *git.Repository, opts git.PushOptions) error {
	m.Pushes++
	if m.PushFunc != nil {
		return m.PushFunc(ctx, repo, opts)
	}
	return platformerrors.New(platformerrors.CodeNotImplemented, "mock push not implemented")
}
