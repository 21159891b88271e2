package domain

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a single facade operation: either a normalized
// API value or a structured error. Every facade method is a fault boundary
// that returns a Result; nothing propagates to the caller as a Go error.
// The boundary that answers the tool call serializes the Result exactly once.
type Result struct {
	value Value
	err   *envelopeError
}

// envelopeError carries the message of a failed operation.
// withStatus selects the `{"error": ..., "status": "error"}` envelope form
// used by issue/project creation; the plain form is `{"error": ...}`.
type envelopeError struct {
	message    string
	withStatus bool
}

// OK returns a successful Result wrapping a normalized value.
func OK(v Value) *Result {
	return &Result{value: v}
}

// Errorf returns a failed Result with a plain error envelope.
func Errorf(format string, args ...interface{}) *Result {
	return &Result{err: &envelopeError{message: fmt.Sprintf(format, args...)}}
}

// StatusErrorf returns a failed Result whose envelope also carries
// `"status": "error"`.
func StatusErrorf(format string, args ...interface{}) *Result {
	return &Result{err: &envelopeError{message: fmt.Sprintf(format, args...), withStatus: true}}
}

// IsError reports whether the Result carries an error envelope.
func (r *Result) IsError() bool {
	return r.err != nil
}

// ErrorMessage returns the envelope message, or "" for successful Results.
func (r *Result) ErrorMessage() string {
	if r.err == nil {
		return ""
	}
	return r.err.message
}

// Value returns the wrapped value. Nil for failed Results.
func (r *Result) Value() Value {
	return r.value
}

// JSON serializes the Result into the tool response document: the indented
// API payload on success, the error envelope on failure.
func (r *Result) JSON() string {
	if r.err != nil {
		envelope := map[string]interface{}{"error": r.err.message}
		if r.err.withStatus {
			envelope["status"] = "error"
		}
		data, _ := json.Marshal(envelope)
		return string(data)
	}

	data, err := json.MarshalIndent(r.value, "", "  ")
	if err != nil {
		fallback, _ := json.Marshal(map[string]interface{}{
			"error": fmt.Sprintf("failed to serialize response: %v", err),
		})
		return string(fallback)
	}
	return string(data)
}

// ToolResponse converts the Result into an MCP tool response.
func (r *Result) ToolResponse() *ToolResponse {
	return TextResponse(r.JSON(), r.IsError())
}
