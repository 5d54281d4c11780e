package config

import (
	"fmt"
	"strings"
	"time"
)

// LedgerBackend selects where NotifyOnce keys are remembered.
type LedgerBackend string

const (
	LedgerMemory LedgerBackend = "memory"
	LedgerRedis  LedgerBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for LedgerBackend.
func (l *LedgerBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*l = LedgerBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid LedgerBackend: %q (valid options: memory, redis)", v)
	}
}

// NotifyConfig configures the notification sink.
type NotifyConfig struct {
	// InboxCapacity caps toasts waiting for the UI; the oldest is dropped when full.
	InboxCapacity int `env:"NOTIFY_INBOX_CAPACITY" envDefault:"100"`

	Ledger         LedgerBackend `env:"NOTIFY_LEDGER"          envDefault:"memory"`
	LedgerCapacity int           `env:"NOTIFY_LEDGER_CAPACITY" envDefault:"1024"`
	OnceTTL        time.Duration `env:"NOTIFY_ONCE_TTL"        envDefault:"24h"`

	// LogOutcomes mirrors every notification into the structured log.
	LogOutcomes bool `env:"NOTIFY_LOG_OUTCOMES" envDefault:"true"`
}

// Sanitize applies guardrails to notification configuration values.
func (c *NotifyConfig) Sanitize() {
	if c.InboxCapacity <= 0 {
		c.InboxCapacity = 100
	}
	if c.Ledger == "" {
		c.Ledger = LedgerMemory
	}
	if c.LedgerCapacity <= 0 {
		c.LedgerCapacity = 1024
	}
	if c.OnceTTL <= 0 {
		c.OnceTTL = 24 * time.Hour
	}
}
