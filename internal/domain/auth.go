package domain

import (
	"fmt"
	"net/http"
)

// Credentials stores the permanent token used to authenticate against the
// YouTrack instance.
type Credentials struct {
	Token string
}

// AuthenticationManager owns the credentials for the YouTrack connection
// and hands out HTTP clients that authenticate every request.
type AuthenticationManager struct {
	credentials *Credentials
}

// NewAuthenticationManager creates a new authentication manager.
func NewAuthenticationManager(credentials *Credentials) *AuthenticationManager {
	return &AuthenticationManager{credentials: credentials}
}

// NewAuthenticationManagerFromConfig creates an authentication manager from
// the loaded configuration.
func NewAuthenticationManagerFromConfig(config *Config) *AuthenticationManager {
	return NewAuthenticationManager(&Credentials{Token: config.YouTrack.Auth.Token})
}

// ValidateCredentials checks that credentials are present and usable.
func (am *AuthenticationManager) ValidateCredentials() error {
	if am.credentials == nil || am.credentials.Token == "" {
		return fmt.Errorf("token is required for YouTrack authentication")
	}
	return nil
}

// GetAuthenticatedClient returns an HTTP client that attaches the permanent
// token to every outgoing request. Returns an error if credentials are
// missing.
func (am *AuthenticationManager) GetAuthenticatedClient() (*http.Client, error) {
	if err := am.ValidateCredentials(); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &tokenTransport{
			base:  http.DefaultTransport,
			token: am.credentials.Token,
		},
	}, nil
}

// tokenTransport is an http.RoundTripper that adds the Authorization header.
type tokenTransport struct {
	base  http.RoundTripper
	token string
}

// RoundTrip implements http.RoundTripper. The request is cloned so callers
// never see their request mutated.
func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clonedReq)
}
