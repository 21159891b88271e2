package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx reply from the YouTrack API.
// The decoded response body is kept so error envelopes can surface the
// server-side message to the calling agent.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("YouTrack API error (status %d): %s - %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("YouTrack API error (status %d): %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and body.
func NewHTTPError(statusCode int, message, body string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// IsNotFound reports whether err is a distinguishable "not found" outcome
// from the API, as opposed to a generic fault. It drives the single
// alternate-key resolution fallback in project issue lookup.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// MapError converts an API error into a JSON-RPC error object.
// Only used for protocol-level failures; tool call faults are converted to
// error envelopes inside Results instead.
func MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return mapHTTPError(httpErr)
	}

	return &Error{
		Code:    InternalError,
		Message: err.Error(),
	}
}

// mapHTTPError maps HTTP status codes to JSON-RPC error codes.
func mapHTTPError(httpErr *HTTPError) *Error {
	var code int
	switch {
	case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
		code = AuthenticationError
	case httpErr.StatusCode == http.StatusBadRequest:
		code = InvalidParams
	case httpErr.StatusCode == http.StatusServiceUnavailable || httpErr.StatusCode == http.StatusGatewayTimeout:
		code = NetworkError
	default:
		code = APIError
	}

	data := map[string]interface{}{
		"statusCode": httpErr.StatusCode,
	}
	if httpErr.Body != "" {
		data["body"] = httpErr.Body
	}

	return &Error{
		Code:    code,
		Message: httpErr.Message,
		Data:    data,
	}
}
