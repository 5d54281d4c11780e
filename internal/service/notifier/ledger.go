package notifier

import (
	"context"
	"sync"
	"time"
)

// MemoryLedgerConfig groups constructor options.
type MemoryLedgerConfig struct {
	// Capacity caps remembered keys; expired keys are swept first, then the oldest.
	Capacity int
	Now      func() time.Time
}

// MemoryLedger is an in-process OnceLedger. Safe for concurrent use.
type MemoryLedger struct {
	mu       sync.Mutex
	capacity int
	now      func() time.Time
	expiry   map[string]time.Time
	order    []string
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger(cfg MemoryLedgerConfig) *MemoryLedger {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1024
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &MemoryLedger{
		capacity: capacity,
		now:      now,
		expiry:   make(map[string]time.Time, capacity),
	}
}

// Seen marks key for ttl and reports whether it was already marked.
func (l *MemoryLedger) Seen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.expiry[key]; ok {
		if now.Before(exp) {
			return true, nil
		}
		l.remove(key)
	}

	if len(l.expiry) >= l.capacity {
		l.evict(now)
	}
	l.expiry[key] = now.Add(ttl)
	l.order = append(l.order, key)
	return false, nil
}

// Len returns the number of remembered keys, including expired ones not yet swept.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expiry)
}

func (l *MemoryLedger) evict(now time.Time) {
	for k, exp := range l.expiry {
		if !now.Before(exp) {
			l.remove(k)
		}
	}
	for len(l.expiry) >= l.capacity && len(l.order) > 0 {
		l.remove(l.order[0])
	}
}

func (l *MemoryLedger) remove(key string) {
	delete(l.expiry, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
