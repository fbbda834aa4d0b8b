package git

import (
	"strings"
)

// worktreePath converts a path rooted at the working tree ("/notes.md")
// into the relative form go-git expects.
func worktreePath(p string) string {
	return strings.TrimLeft(p, "/")
}

// Add stages the given working tree paths.
func (r *Repository) Add(paths ...string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}
	for _, p := range paths {
		if _, err := wt.Add(worktreePath(p)); err != nil {
			return wrapError(err, "failed to stage "+p)
		}
	}
	return nil
}

// Unstage drops the given paths from the index. The working tree is left
// untouched, so the files show up as untracked afterwards.
func (r *Repository) Unstage(paths ...string) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return wrapError(err, "failed to read index")
	}
	for _, p := range paths {
		if _, err := idx.Remove(worktreePath(p)); err != nil {
			return wrapError(err, "failed to unstage "+p)
		}
	}
	if err := r.repo.Storer.SetIndex(idx); err != nil {
		return wrapError(err, "failed to write index")
	}
	return nil
}

// IsClean reports whether the working tree has no staged or unstaged
// changes.
func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, wrapError(err, "failed to get worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return false, wrapError(err, "failed to read status")
	}
	return status.IsClean(), nil
}
