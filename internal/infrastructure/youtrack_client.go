package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"youtrack-mcp-server/internal/domain"
)

// YouTrackClient performs authenticated calls against the YouTrack REST API
// (<base_url>/api). It implements domain.APIClient and is the single place
// where HTTP responses are parsed: every reply is decoded once into a
// normalized domain.Value that all facades consume uniformly.
type YouTrackClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTrackClient creates a new YouTrack API client.
// The baseURL should be the instance root (e.g. "https://youtrack.example.com");
// the /api prefix is appended per request. The httpClient should be an
// authenticated client from the AuthenticationManager.
func NewYouTrackClient(baseURL string, httpClient *http.Client) *YouTrackClient {
	return &YouTrackClient{
		baseURL:    domain.NormalizeBaseURL(baseURL),
		httpClient: httpClient,
	}
}

// BaseURL returns the instance root URL (without the /api suffix).
func (c *YouTrackClient) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections held by the underlying HTTP client.
func (c *YouTrackClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get performs a GET request against the given API path.
func (c *YouTrackClient) Get(ctx context.Context, path string, params url.Values) (domain.Value, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post performs a POST request with a JSON body against the given API path.
func (c *YouTrackClient) Post(ctx context.Context, path string, params url.Values, body interface{}) (domain.Value, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, params, reader)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// newRequest builds an API request with common headers.
func (c *YouTrackClient) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + "/api/" + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do executes the request and normalizes the response.
// Non-2xx replies become *domain.HTTPError with the decoded body attached.
func (c *YouTrackClient) do(req *http.Request) (domain.Value, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(data)))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var value domain.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return value, nil
}
