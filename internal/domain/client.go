package domain

import (
	"context"
	"net/url"
)

// APIClient defines the outbound HTTP surface all facades depend on.
// Implementations perform authenticated calls against the YouTrack REST API
// and return responses already normalized into Values.
type APIClient interface {
	// Get performs a GET request against the given API path (relative to
	// <base_url>/api). Query parameters may be nil.
	Get(ctx context.Context, path string, params url.Values) (Value, error)

	// Post performs a POST request with a JSON body against the given API
	// path. Query parameters may be nil.
	Post(ctx context.Context, path string, params url.Values, body interface{}) (Value, error)

	// BaseURL returns the YouTrack instance root URL (without the /api
	// suffix). Used to build browsable issue links.
	BaseURL() string

	// Close releases the underlying HTTP connections.
	Close()
}
