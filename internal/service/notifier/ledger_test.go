package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemoryLedger_Seen(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewMemoryLedger(MemoryLedgerConfig{Now: clock.Now})

	seen, err := l.Seen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = l.Seen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, seen)

	clock.now = clock.now.Add(time.Minute)
	seen, err = l.Seen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, seen, "expired keys are forgotten")
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLedger_EvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(MemoryLedgerConfig{Capacity: 2})

	for _, k := range []string{"a", "b", "c"} {
		seen, err := l.Seen(ctx, k, time.Hour)
		require.NoError(t, err)
		require.False(t, seen)
	}
	assert.Equal(t, 2, l.Len())

	seen, err := l.Seen(ctx, "a", time.Hour)
	require.NoError(t, err)
	assert.False(t, seen, "oldest key was evicted")

	seen, err = l.Seen(ctx, "c", time.Hour)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryLedger_SweepsExpiredBeforeEvicting(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	l := NewMemoryLedger(MemoryLedgerConfig{Capacity: 2, Now: clock.Now})

	_, _ = l.Seen(ctx, "short", time.Second)
	_, _ = l.Seen(ctx, "long", time.Hour)
	clock.now = clock.now.Add(2 * time.Second)
	_, _ = l.Seen(ctx, "new", time.Hour)

	seen, _ := l.Seen(ctx, "long", time.Hour)
	assert.True(t, seen, "unexpired key survives while expired one is swept")
}
