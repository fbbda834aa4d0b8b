package errors

import "fmt"

// New creates a PlatformError classified by the default for code.
//
//	err := errors.New(errors.CodeLocalVCS, "nothing to commit")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
//
//	err := errors.Newf(errors.CodeInvalidInput, "invalid repository %q", s)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
