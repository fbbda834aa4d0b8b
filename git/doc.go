// Package git wraps go-git with the conventions the repository cache needs.
//
// A Repository always lives inside a billy filesystem at a fixed path with
// its metadata in "<path>/.git". Network operations (clone, fetch, pull,
// push) go through the RemoteOperations interface so callers can swap in a
// mock; local operations (stage, unstage, commit, refs, config) act on the
// go-git repository directly.
//
// Errors returned by this package are classified into platform error codes
// (NOT_FOUND, UNAUTHORIZED, CONFLICT, ...) so callers can decide whether a
// failure is worth retrying:
//
//	repo, err := git.Clone(ctx, "/repos/acme/notes", "https://github.com/acme/notes",
//	    git.WithFilesystem(fsys),
//	    git.WithAuth(git.TokenAuth(login, token)),
//	    git.WithDepth(1),
//	    git.WithSingleBranch(),
//	    git.WithReferenceName(plumbing.NewBranchReferenceName("main")),
//	)
//
// Browser-style deployments reach the git host through a CORS relay; see
// InstallRelay.
package git
