package errors

// ErrorCode identifies a failure category. Codes are strings so they read
// well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates the remote and local state diverged, such as a
	// non-fast-forward push or pull.
	CodeConflict ErrorCode = "CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates missing or rejected credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the principal lacks permission.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeRateLimit indicates the rate limit has been exceeded.
	CodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeUnavailable indicates a remote service is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Repository cache and sync errors.

	// CodeCloneFailed indicates cloning a repository into the cache failed.
	CodeCloneFailed ErrorCode = "CLONE_FAILED"

	// CodeSyncFailed indicates a pull or push against the remote failed.
	CodeSyncFailed ErrorCode = "SYNC_FAILED"

	// CodeLocalVCS indicates a local index or history operation failed
	// (stage, remove, commit, ref lookups).
	CodeLocalVCS ErrorCode = "LOCAL_VCS_ERROR"

	// CodeFilesystem indicates a directory or file operation failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// Large file errors.

	// CodeLFSResolution indicates a pointer could not be resolved to a URL.
	CodeLFSResolution ErrorCode = "LFS_RESOLUTION_FAILED"

	// CodeLFSUpload indicates large file content could not be uploaded.
	CodeLFSUpload ErrorCode = "LFS_UPLOAD_FAILED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the requested functionality is not implemented.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
