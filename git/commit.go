package git

import (
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is a formatted view of a commit object.
type Commit struct {
	Hash      string
	Author    string
	Email     string
	Message   string
	Timestamp time.Time
}

// CreateCommit commits the index on the current HEAD and returns the new
// commit hash. A commit without changes fails with CONFLICT unless
// AllowEmpty is set.
//
//	hash, err := repo.CreateCommit(git.CommitOptions{
//	    Author:  "Ada",
//	    Email:   "ada@example.com",
//	    Message: "Update uploads/1700000000000.png",
//	})
func (r *Repository) CreateCommit(opts CommitOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", wrapError(err, "failed to get worktree")
	}

	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  opts.Author,
			Email: opts.Email,
			When:  time.Now(),
		},
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		return "", wrapError(err, "failed to create commit")
	}
	return hash.String(), nil
}

// Head returns the commit hash HEAD points to.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", wrapError(err, "failed to resolve HEAD")
	}
	return ref.Hash().String(), nil
}

// LastCommit returns the commit HEAD points to.
func (r *Repository) LastCommit() (Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Commit{}, wrapError(err, "failed to resolve HEAD")
	}
	obj, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return Commit{}, wrapError(err, "failed to read commit")
	}
	return Commit{
		Hash:      obj.Hash.String(),
		Author:    obj.Author.Name,
		Email:     obj.Author.Email,
		Message:   strings.TrimSpace(obj.Message),
		Timestamp: obj.Author.When,
	}, nil
}
