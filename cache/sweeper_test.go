package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lumenchat/cachekit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepNowPurgesColdNamespaces(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, WithCatalog(Catalog{
		"hot":  {TTL: 10 * time.Second, MaxEntries: 10, Strategy: LRU},
		"cold": {TTL: 10 * time.Second, MaxEntries: 10, Strategy: FIFO},
	}))

	m.Set(ctx, "hot", "key", 1)
	m.Set(ctx, "cold", "key", 2)

	// Nothing expired yet.
	removed, err := m.SweepNow(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// Both namespaces are purged without any reads having happened.
	removed, err = m.SweepNow(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, ns := range []string{"hot", "cold"} {
		stats, ok := m.GetStats(ns)
		require.True(t, ok)
		assert.Equal(t, int64(0), stats.TotalEntries, "namespace %s", ns)
		assert.Equal(t, int64(0), stats.MemoryUsageBytes, "namespace %s", ns)
	}
}

func TestBackgroundSweeper(t *testing.T) {
	ctx := context.Background()
	m := New(ctx, logger.NewTestLogger(), WithSweepInterval(10*time.Millisecond))
	defer m.Close()
	require.NoError(t, m.CreateNamespace("ns", NamespaceConfig{TTL: 20 * time.Millisecond, MaxEntries: 10, Strategy: LRU}))

	m.Set(ctx, "ns", "key", "value")

	assert.Eventually(t, func() bool {
		stats, ok := m.GetStats("ns")
		return ok && stats.TotalEntries == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSweeperStopsOnClose(t *testing.T) {
	m := New(context.Background(), logger.NewTestLogger(), WithSweepInterval(time.Millisecond))
	require.NoError(t, m.Close())
	// After Close returns the sweeper goroutine has exited; a second Close
	// must not block or panic.
	require.NoError(t, m.Close())
}
