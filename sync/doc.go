// Package sync keeps cached repositories in step with their remotes.
//
// The Engine clones, pulls and pushes a single tracked branch per
// repository and performs local index operations (stage, unstage, commit).
// Every repository moves through a small state machine:
//
//	Uncached → Cloning → Cloned
//	Cloned → Syncing → Cloned   (pull, push)
//
// The engine does not serialize operations on the same repository.
// Callers that issue concurrent mutations, such as a push while a commit
// is still running, must coordinate themselves.
//
// Failures carry platform error codes: CLONE_FAILED for clone,
// SYNC_FAILED for pull and push, LOCAL_VCS_ERROR for index and commit
// operations. The cause classified by the git layer (for example
// UNAUTHORIZED or CONFLICT) stays in the chain and decides retryability.
// Nothing is retried automatically.
//
// Example:
//
//	engine := sync.New(fsys, mgr, sync.WithLogger(logger))
//	if err := engine.Clone(ctx, id, creds); err != nil {
//	    return err
//	}
//	synced, err := engine.IsSynced(ctx, id)
package sync
