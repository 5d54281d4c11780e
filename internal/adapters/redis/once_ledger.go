package redis

// Package redis provides Redis-backed adapters for medgate.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultOncePrefix namespaces ledger keys.
const DefaultOncePrefix = "medgate:"

// OnceLedger records notification keys in Redis so an outcome is shown at most once,
// even across process restarts within the TTL.
type OnceLedger struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.OnceLedger = (*OnceLedger)(nil)

// NewOnceLedger creates a ledger using DefaultOncePrefix.
func NewOnceLedger(client redis.UniversalClient) *OnceLedger {
	return NewOnceLedgerWithPrefix(client, DefaultOncePrefix)
}

// NewOnceLedgerWithPrefix creates a ledger with a custom key prefix.
func NewOnceLedgerWithPrefix(client redis.UniversalClient, prefix string) *OnceLedger {
	return &OnceLedger{client: client, prefix: prefix}
}

// Seen marks key for ttl and reports whether it was already marked.
func (l *OnceLedger) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, errors.New("once key cannot be empty")
	}
	if ttl <= 0 {
		return false, fmt.Errorf("once ttl must be positive, got %s", ttl)
	}

	// SET NX with TTL in one command; SETNX followed by EXPIRE is not atomic.
	err := l.client.SetArgs(ctx, l.prefix+key, "1", redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("redis SET NX: %w", err)
	}
	return false, nil
}
