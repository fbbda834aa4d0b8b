package errors

import "net/http"

// FromHTTPStatus maps an HTTP response status to an error code. Server
// errors map to CodeNetwork so they classify as retryable.
func FromHTTPStatus(status int) ErrorCode {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusConflict:
		return CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return CodeInvalidInput
	case http.StatusTooManyRequests:
		return CodeRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return CodeTimeout
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	}
	if status >= 500 {
		return CodeNetwork
	}
	return CodeInternal
}

// WrapHTTPError wraps err with the code derived from status.
// Returns nil if err is nil.
func WrapHTTPError(err error, status int, message string) PlatformError {
	if err == nil {
		return nil
	}
	return WrapWithContext(err, FromHTTPStatus(status), message, map[string]interface{}{
		"status": status,
	})
}
