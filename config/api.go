package config

import (
	"strings"
	"time"
)

// APIConfig configures the client for the refill backend.
type APIConfig struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8000/api".
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds each backend call. Zero means no timeout.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	// ErrorCodeExpr is a JMESPath expression locating the error code in non-2xx bodies.
	ErrorCodeExpr string `env:"API_ERROR_CODE_EXPR" envDefault:"code"`

	UserAgent string `env:"API_USER_AGENT" envDefault:"medgate"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if c.ErrorCodeExpr = strings.TrimSpace(c.ErrorCodeExpr); c.ErrorCodeExpr == "" {
		c.ErrorCodeExpr = "code"
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}

// SessionConfig controls the session gate.
type SessionConfig struct {
	// ReprobeOnLogoutFailure re-runs the session probe after a failed logout so the UI
	// reflects what the server still believes.
	ReprobeOnLogoutFailure bool `env:"SESSION_REPROBE_ON_LOGOUT_FAILURE" envDefault:"false"`

	// MountTimeout bounds the initial probe at startup. Zero means no timeout.
	MountTimeout time.Duration `env:"SESSION_MOUNT_TIMEOUT" envDefault:"0s"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.MountTimeout < 0 {
		c.MountTimeout = 0
	}
}
