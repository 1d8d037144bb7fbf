package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreloadBatches(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, WithPreloadBatchSize(10))
	require.NoError(t, m.CreateNamespace("docs", NamespaceConfig{TTL: time.Minute, MaxEntries: 100, Strategy: LRU}))

	keys := make([]string, 25)
	for i := range keys {
		keys[i] = fmt.Sprintf("doc_%d", i)
	}

	var batches [][]string
	inserted := m.Preload(ctx, "docs", keys, func(ctx context.Context, batch []string) (map[string]any, error) {
		batches = append(batches, batch)
		out := make(map[string]any, len(batch))
		for _, key := range batch {
			out[key] = "content of " + key
		}
		return out, nil
	})

	assert.Equal(t, 25, inserted)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[2], 5)

	found, val := m.Get(ctx, "docs", "doc_24")
	assert.True(t, found)
	assert.Equal(t, "content of doc_24", val)
}

func TestPreloadFailedBatchIsSkipped(t *testing.T) {
	ctx := context.Background()
	m := testManager(t, WithPreloadBatchSize(2))
	require.NoError(t, m.CreateNamespace("docs", NamespaceConfig{TTL: time.Minute, MaxEntries: 100, Strategy: LRU}))

	var call int
	inserted := m.Preload(ctx, "docs", []string{"a", "b", "c", "d"}, func(ctx context.Context, batch []string) (map[string]any, error) {
		call++
		if call == 1 {
			return nil, errors.New("loader down")
		}
		out := make(map[string]any, len(batch))
		for _, key := range batch {
			out[key] = key
		}
		return out, nil
	})

	// First batch failed, second landed; no error surfaced.
	assert.Equal(t, 2, inserted)
	found, _ := m.Get(ctx, "docs", "a")
	assert.False(t, found)
	found, _ = m.Get(ctx, "docs", "c")
	assert.True(t, found)
}

func TestPreloadUnknownNamespace(t *testing.T) {
	m := testManager(t)
	inserted := m.Preload(context.Background(), "nope", []string{"a"}, func(ctx context.Context, keys []string) (map[string]any, error) {
		t.Fatal("loader must not run for unknown namespace")
		return nil, nil
	})
	assert.Equal(t, 0, inserted)
}

func TestWarm(t *testing.T) {
	ctx := context.Background()
	m := testManager(t)
	require.NoError(t, m.CreateNamespace("sessions", NamespaceConfig{TTL: time.Minute, MaxEntries: 100, Strategy: LRU}))

	warmed := m.Warm(ctx, "sessions", "u42", map[string]Loader{
		"profile": func(ctx context.Context) (any, error) {
			return "profile data", nil
		},
		"settings": func(ctx context.Context) (any, error) {
			return nil, errors.New("settings service down")
		},
	})

	assert.Equal(t, 1, warmed)
	found, val := m.Get(ctx, "sessions", "profile:u42")
	assert.True(t, found)
	assert.Equal(t, "profile data", val)
	found, _ = m.Get(ctx, "sessions", "settings:u42")
	assert.False(t, found)
}
