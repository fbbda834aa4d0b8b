// Package errors provides structured errors for the repository cache.
//
// Every failure that leaves a package boundary is a PlatformError carrying a
// code, a retry classification, optional context metadata and the wrapped
// cause. The package stays compatible with the standard library (errors.Is,
// errors.As, errors.Unwrap).
//
// The codes follow the failure taxonomy of the cache:
//
//	CLONE_FAILED           clone into the cache failed
//	SYNC_FAILED            pull or push failed
//	LOCAL_VCS_ERROR        stage, remove, commit or ref lookup failed
//	LFS_RESOLUTION_FAILED  a pointer could not be resolved
//	LFS_UPLOAD_FAILED      large file content could not be uploaded
//	FILESYSTEM_ERROR       directory or file I/O failed
//
// Lower layers classify their own failures (network, auth, not found) and
// the domain layers wrap them:
//
//	if err := remote.Clone(ctx, fs, opts); err != nil {
//	    return errors.Wrap(err, errors.CodeCloneFailed, "failed to clone repository")
//	}
//
// Wrap keeps the classification of a wrapped PlatformError, so
// errors.IsRetryable reports whether a clone failed on a flaky network
// (retryable) or on rejected credentials (permanent).
package errors
