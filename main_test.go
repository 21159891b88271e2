package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtrack-mcp-server/internal/domain"
)

// TestBootstrapConfiguration loads a full configuration file the way the
// command does and verifies the authentication manager built from it.
func TestBootstrapConfiguration(t *testing.T) {
	t.Setenv(domain.EnvYouTrackURL, "")
	t.Setenv(domain.EnvYouTrackToken, "")

	configContent := `
transport:
  type: http
  http:
    host: localhost
    port: 8080

youtrack:
  base_url: https://youtrack.example.com
  auth:
    token: perm:bootstrap
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o600))

	config, err := domain.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http", config.Transport.Type)
	assert.Equal(t, "localhost", config.Transport.HTTP.Host)
	assert.Equal(t, 8080, config.Transport.HTTP.Port)
	assert.Equal(t, "https://youtrack.example.com", config.YouTrack.BaseURL)

	authManager := domain.NewAuthenticationManagerFromConfig(config)
	require.NoError(t, authManager.ValidateCredentials())

	client, err := authManager.GetAuthenticatedClient()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

// TestBootstrapRejectsIncompleteConfiguration verifies that the command
// refuses to start without connection settings.
func TestBootstrapRejectsIncompleteConfiguration(t *testing.T) {
	t.Setenv(domain.EnvYouTrackURL, "")
	t.Setenv(domain.EnvYouTrackToken, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  type: stdio\n"), 0o600))

	_, err := domain.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
