package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// ResolveRef returns the commit hash the named reference resolves to,
// following symbolic references. A missing reference fails with NOT_FOUND.
//
//	local, err := repo.ResolveRef("refs/heads/main")
//	remote, err := repo.ResolveRef("refs/remotes/origin/main")
func (r *Repository) ResolveRef(name string) (string, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		return "", wrapError(err, "failed to resolve "+name)
	}
	return ref.Hash().String(), nil
}

// SetRef points the named reference at hash, creating it if needed.
func (r *Repository) SetRef(name, hash string) error {
	h := plumbing.NewHash(hash)
	if h.IsZero() {
		return wrapError(fmt.Errorf("invalid hash %q", hash), "failed to set "+name)
	}
	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), h)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return wrapError(err, "failed to set "+name)
	}
	return nil
}

// BranchRef returns the full reference name of a local branch.
func BranchRef(branch string) string {
	return plumbing.NewBranchReferenceName(branch).String()
}

// RemoteTrackingRef returns the full reference name of a remote-tracking
// branch, such as "refs/remotes/origin/main".
func RemoteTrackingRef(remote, branch string) string {
	return plumbing.NewRemoteReferenceName(remoteName(remote), branch).String()
}
