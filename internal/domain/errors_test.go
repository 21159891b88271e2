package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorMessage(t *testing.T) {
	withBody := NewHTTPError(404, "Not Found", `{"error":"Entity not found"}`)
	assert.Contains(t, withBody.Error(), "status 404")
	assert.Contains(t, withBody.Error(), "Entity not found")

	withoutBody := NewHTTPError(500, "Internal Server Error", "")
	assert.Equal(t, "YouTrack API error (status 500): Internal Server Error", withoutBody.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewHTTPError(404, "Not Found", "")))
	assert.True(t, IsNotFound(fmt.Errorf("fetch failed: %w", NewHTTPError(404, "Not Found", ""))))

	assert.False(t, IsNotFound(NewHTTPError(500, "Internal Server Error", "")))
	assert.False(t, IsNotFound(NewHTTPError(403, "Forbidden", "")))
	assert.False(t, IsNotFound(errors.New("connection refused")))
	assert.False(t, IsNotFound(nil))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unauthorized", NewHTTPError(401, "Unauthorized", ""), AuthenticationError},
		{"forbidden", NewHTTPError(403, "Forbidden", ""), AuthenticationError},
		{"bad request", NewHTTPError(400, "Bad Request", ""), InvalidParams},
		{"service unavailable", NewHTTPError(503, "Service Unavailable", ""), NetworkError},
		{"gateway timeout", NewHTTPError(504, "Gateway Timeout", ""), NetworkError},
		{"not found", NewHTTPError(404, "Not Found", ""), APIError},
		{"server fault", NewHTTPError(500, "Internal Server Error", ""), APIError},
		{"plain error", errors.New("something broke"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			require.NotNil(t, mapped)
			assert.Equal(t, tt.wantCode, mapped.Code)
		})
	}
}

func TestMapErrorPassesThroughDomainError(t *testing.T) {
	original := &Error{Code: InvalidParams, Message: "missing required parameter: query"}
	assert.Same(t, original, MapError(original))
	assert.Same(t, original, MapError(fmt.Errorf("wrapped: %w", original)))
}

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapErrorAttachesHTTPDetails(t *testing.T) {
	mapped := MapError(NewHTTPError(404, "Not Found", "project missing"))
	data, ok := mapped.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 404, data["statusCode"])
	assert.Equal(t, "project missing", data["body"])
}
