package github

import (
	"github.com/mikellez/lumen/errors"
)

// Convenience aliases for the codes providers return.
const (
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound = errors.CodeNotFound

	// ErrCodeAuthenticationFailed indicates authentication failure.
	ErrCodeAuthenticationFailed = errors.CodeUnauthorized

	// ErrCodePermissionDenied indicates insufficient permissions.
	ErrCodePermissionDenied = errors.CodeForbidden

	// ErrCodeRateLimited indicates rate limit exceeded.
	ErrCodeRateLimited = errors.CodeRateLimit
)

// WrapHTTPError wraps an error based on the HTTP status code returned by
// the GitHub API. A zero status means the request never got a response and
// is reported as a network error.
func WrapHTTPError(err error, statusCode int, message string) error {
	if err == nil {
		return nil
	}
	if statusCode == 0 {
		return errors.Wrap(err, errors.CodeNetwork, message)
	}
	return errors.WrapHTTPError(err, statusCode, message)
}

// newInvalidInputError creates an invalid input error with context.
func newInvalidInputError(field, reason string) error {
	err := errors.Newf(errors.CodeInvalidInput, "invalid %s: %s", field, reason)
	err = errors.WithContext(err, "field", field)
	return errors.WithContext(err, "reason", reason)
}
