package application

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"youtrack-mcp-server/internal/infrastructure"
)

// apiCall records one request the facade sent to the mock YouTrack server.
type apiCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// mockYouTrack is a fake YouTrack instance backed by httptest. Tests register
// routes and afterwards inspect the recorded calls.
type mockYouTrack struct {
	t      *testing.T
	mux    *http.ServeMux
	server *httptest.Server

	mu    sync.Mutex
	calls []apiCall
}

func newMockYouTrack(t *testing.T) *mockYouTrack {
	t.Helper()

	m := &mockYouTrack{t: t, mux: http.NewServeMux()}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		m.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.server.Close)
	return m
}

// handle registers a route. Paths must include the /api prefix the client
// adds, e.g. "/api/admin/projects".
func (m *mockYouTrack) handle(pattern string, fn http.HandlerFunc) {
	m.mux.HandleFunc(pattern, fn)
}

// handleJSON registers a route that always replies with the given document.
func (m *mockYouTrack) handleJSON(pattern string, document interface{}) {
	m.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, document)
	})
}

func (m *mockYouTrack) record(r *http.Request) {
	call := apiCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
	}
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err == nil && len(data) > 0 {
			json.Unmarshal(data, &call.Body)
			r.Body = io.NopCloser(bytes.NewReader(data))
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// client builds a YouTrack API client pointed at the mock server.
func (m *mockYouTrack) client() *infrastructure.YouTrackClient {
	return infrastructure.NewYouTrackClient(m.server.URL, m.server.Client())
}

// baseURL returns the mock instance root.
func (m *mockYouTrack) baseURL() string {
	return m.server.URL
}

// callsTo returns the recorded calls matching method and path.
func (m *mockYouTrack) callsTo(method, path string) []apiCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []apiCall
	for _, call := range m.calls {
		if call.Method == method && call.Path == path {
			matched = append(matched, call)
		}
	}
	return matched
}

func respondJSON(w http.ResponseWriter, document interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(document)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}
