package domain

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatedClientAddsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	manager := NewAuthenticationManager(&Credentials{Token: "perm:secret"})
	client, err := manager.GetAuthenticatedClient()
	require.NoError(t, err)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer perm:secret", gotAuth)
}

func TestAuthenticatedClientRequiresToken(t *testing.T) {
	manager := NewAuthenticationManager(&Credentials{})
	_, err := manager.GetAuthenticatedClient()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, NewAuthenticationManager(&Credentials{Token: "perm:x"}).ValidateCredentials())
	assert.Error(t, NewAuthenticationManager(&Credentials{}).ValidateCredentials())
	assert.Error(t, NewAuthenticationManager(nil).ValidateCredentials())
}

func TestAuthenticationManagerFromConfig(t *testing.T) {
	config := &Config{
		YouTrack: YouTrackConfig{Auth: AuthConfig{Token: "perm:fromconfig"}},
	}

	manager := NewAuthenticationManagerFromConfig(config)
	require.NoError(t, manager.ValidateCredentials())
}

func TestTokenTransportDoesNotMutateRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	manager := NewAuthenticationManager(&Credentials{Token: "perm:secret"})
	client, err := manager.GetAuthenticatedClient()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"), "caller's request stays untouched")
}
