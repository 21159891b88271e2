package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration. They match the
// variables the YouTrack instance tooling already uses, so the server can run
// with no config file at all.
const (
	EnvYouTrackURL   = "YOUTRACK_URL"
	EnvYouTrackToken = "YOUTRACK_API_TOKEN"
)

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	YouTrack  YouTrackConfig  `yaml:"youtrack"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// YouTrackConfig defines the connection to the YouTrack instance.
type YouTrackConfig struct {
	BaseURL string     `yaml:"base_url"`
	Auth    AuthConfig `yaml:"auth"`
}

// AuthConfig defines authentication settings.
// YouTrack uses permanent token authentication (Authorization: Bearer).
type AuthConfig struct {
	Token string `yaml:"token"`
}

// LoadConfig reads configuration from a YAML file, applies environment
// overrides and validates the result. A missing file is not an error when
// the environment carries the full connection settings.
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
		}
	case os.IsNotExist(err):
		// Fall through to environment-only configuration.
	default:
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config.applyEnvironment()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyEnvironment overrides file settings with environment variables.
func (c *Config) applyEnvironment() {
	if v := os.Getenv(EnvYouTrackURL); v != "" {
		c.YouTrack.BaseURL = v
	}
	if v := os.Getenv(EnvYouTrackToken); v != "" {
		c.YouTrack.Auth.Token = v
	}
}

// applyDefaults fills unset optional settings.
func (c *Config) applyDefaults() {
	if c.Transport.Type == "" {
		c.Transport.Type = "stdio"
	}
	c.YouTrack.BaseURL = NormalizeBaseURL(c.YouTrack.BaseURL)
}

// NormalizeBaseURL strips trailing slashes and a trailing /api segment, so
// the configured URL always points at the instance root. Browsable issue
// links are derived from this root; the REST client appends /api itself.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/api")
	return baseURL
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.YouTrack.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates the YouTrack connection configuration.
func (yc *YouTrackConfig) Validate() error {
	var errors []string

	if yc.BaseURL == "" {
		errors = append(errors, "YouTrack base_url is required (set youtrack.base_url or "+EnvYouTrackURL+")")
	} else {
		parsedURL, err := url.Parse(yc.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("YouTrack base_url is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "YouTrack base_url must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "YouTrack base_url must include a host")
		}
	}

	if yc.Auth.Token == "" {
		errors = append(errors, "YouTrack token is required (set youtrack.auth.token or "+EnvYouTrackToken+")")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
