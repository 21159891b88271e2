package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp-server/internal/domain"
)

// recordedRequest captures what the client actually sent.
type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

func newRecordingServer(t *testing.T, status int, responseBody string) (*YouTrackClient, *[]recordedRequest, func()) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
			body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(responseBody))
	}))

	client := NewYouTrackClient(server.URL, server.Client())
	return client, &requests, server.Close
}

func TestGetBuildsAPIPath(t *testing.T) {
	client, requests, cleanup := newRecordingServer(t, http.StatusOK, `{"id":"2-1"}`)
	defer cleanup()

	params := url.Values{"fields": {"id,summary"}, "$top": {"10"}}
	value, err := client.Get(context.Background(), "issues/DEMO-1", params)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/issues/DEMO-1", req.path)
	assert.Equal(t, "id,summary", req.query.Get("fields"))
	assert.Equal(t, "10", req.query.Get("$top"))
	assert.Equal(t, "application/json", req.header.Get("Accept"))

	obj, ok := domain.AsObject(value)
	require.True(t, ok)
	assert.Equal(t, "2-1", obj["id"])
}

func TestGetWithoutParams(t *testing.T) {
	client, requests, cleanup := newRecordingServer(t, http.StatusOK, `[]`)
	defer cleanup()

	_, err := client.Get(context.Background(), "admin/projects", nil)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Empty(t, (*requests)[0].query)
}

func TestPostSendsJSONBody(t *testing.T) {
	client, requests, cleanup := newRecordingServer(t, http.StatusOK, `{"id":"2-42"}`)
	defer cleanup()

	body := map[string]interface{}{
		"summary": "New issue",
		"project": map[string]interface{}{"id": "0-5"},
	}
	_, err := client.Post(context.Background(), "issues", nil, body)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/issues", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, "New issue", sent["summary"])
}

func TestPostWithoutBodyOmitsContentType(t *testing.T) {
	client, requests, cleanup := newRecordingServer(t, http.StatusOK, `{}`)
	defer cleanup()

	_, err := client.Post(context.Background(), "issues/DEMO-1/comments", nil, nil)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Empty(t, (*requests)[0].header.Get("Content-Type"))
}

func TestErrorResponseBecomesHTTPError(t *testing.T) {
	client, _, cleanup := newRecordingServer(t, http.StatusNotFound, `{"error":"Entity with id DEMO-404 not found"}`)
	defer cleanup()

	_, err := client.Get(context.Background(), "issues/DEMO-404", nil)
	require.Error(t, err)

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "DEMO-404 not found")
	assert.True(t, domain.IsNotFound(err))
}

func TestEmptyBodyReturnsNil(t *testing.T) {
	client, _, cleanup := newRecordingServer(t, http.StatusOK, "")
	defer cleanup()

	value, err := client.Get(context.Background(), "issues/DEMO-1", nil)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestInvalidJSONResponse(t *testing.T) {
	client, _, cleanup := newRecordingServer(t, http.StatusOK, "<html>proxy error</html>")
	defer cleanup()

	_, err := client.Get(context.Background(), "issues", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestBaseURLNormalizedAtConstruction(t *testing.T) {
	client := NewYouTrackClient("https://yt.example.com/api/", http.DefaultClient)
	assert.Equal(t, "https://yt.example.com", client.BaseURL())
}

func TestContextCancellation(t *testing.T) {
	client, _, cleanup := newRecordingServer(t, http.StatusOK, `{}`)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "issues", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
