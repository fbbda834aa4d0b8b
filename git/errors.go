package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/transport"

	platformerrors "github.com/mikellez/lumen/errors"
)

// wrapError classifies err and prefixes it with context. The original
// error stays in the chain for errors.Is and errors.As.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, classifyError(err))
}

// classifyError maps go-git sentinels to platform error codes. Unknown
// errors pass through unchanged. A push rejected before sending is reported
// by go-git as a plain "non-fast-forward update" error, so it is matched by
// text.
//
//nolint:gocyclo,cyclop // flat mapping table
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	classify := func(code platformerrors.ErrorCode, msg string) error {
		return platformerrors.Wrap(err, code, msg)
	}

	switch {
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return classify(platformerrors.CodeNotFound, "repository does not exist")
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return classify(platformerrors.CodeNotFound, "remote repository not found")
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return classify(platformerrors.CodeNotFound, "remote repository is empty")
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return classify(platformerrors.CodeNotFound, "reference not found")
	case errors.Is(err, gogit.ErrRemoteNotFound):
		return classify(platformerrors.CodeNotFound, "remote not found")
	case errors.Is(err, index.ErrEntryNotFound):
		return classify(platformerrors.CodeNotFound, "path is not in the index")

	case errors.Is(err, gogit.ErrRepositoryAlreadyExists):
		return classify(platformerrors.CodeAlreadyExists, "repository already exists")
	case errors.Is(err, gogit.ErrRemoteExists):
		return classify(platformerrors.CodeAlreadyExists, "remote already exists")

	case errors.Is(err, transport.ErrAuthenticationRequired):
		return classify(platformerrors.CodeUnauthorized, "authentication required")
	case errors.Is(err, transport.ErrAuthorizationFailed):
		return classify(platformerrors.CodeUnauthorized, "authorization failed")

	case errors.Is(err, gogit.ErrNonFastForwardUpdate),
		errors.Is(err, gogit.ErrForceNeeded),
		errors.Is(err, gogit.ErrFastForwardMergeNotPossible),
		strings.Contains(err.Error(), "non-fast-forward update"):
		return classify(platformerrors.CodeConflict, "local and remote histories have diverged")
	case errors.Is(err, gogit.ErrUnstagedChanges), errors.Is(err, gogit.ErrWorktreeNotClean):
		return classify(platformerrors.CodeConflict, "worktree is not clean")
	case errors.Is(err, gogit.ErrEmptyCommit):
		return classify(platformerrors.CodeConflict, "nothing to commit")

	case errors.Is(err, gogit.ErrMissingURL):
		return classify(platformerrors.CodeInvalidInput, "URL is required")
	case errors.Is(err, gogit.ErrMissingAuthor):
		return classify(platformerrors.CodeInvalidInput, "author is required")
	}

	return err
}
