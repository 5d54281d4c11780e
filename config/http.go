package config

import (
	"strings"
	"time"
)

// HTTPConfig contains configuration for the local UI server.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to. Loopback by default: the
	// process holds a user's backend session and should not be reachable remotely.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr = strings.TrimSpace(h.Addr); h.Addr == "" {
		h.Addr = "127.0.0.1:8080"
	}
	if h.ReadHeaderTimeout <= 0 {
		h.ReadHeaderTimeout = 5 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}
