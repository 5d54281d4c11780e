package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Backend API client and session behaviour
//   - http.go: Local UI server configuration
//   - redis.go: Optional Redis connection for the notification ledger
//   - notify.go: Notification sink configuration
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, debug level).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	API     APIConfig
	Session SessionConfig

	HTTP HTTPConfig

	Redis RedisConfig `envPrefix:"REDIS_"`

	Notify NotifyConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize()
	c.Redis.Sanitize()
	c.Notify.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()

	// A Redis ledger without a Redis connection falls back to memory.
	if c.Notify.Ledger == LedgerRedis && !c.Redis.Enabled {
		c.Notify.Ledger = LedgerMemory
	}
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
