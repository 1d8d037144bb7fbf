package cache

import (
	"context"
	"time"
)

// BatchLoader fetches values for a set of keys in one call.
type BatchLoader func(ctx context.Context, keys []string) (map[string]any, error)

// Loader produces a single value.
type Loader func(ctx context.Context) (any, error)

// DefaultPreloadBatchSize bounds how many keys a single BatchLoader call
// receives during Preload.
const DefaultPreloadBatchSize = 50

// Preload fetches the given keys through load in bounded batches and
// inserts the results. Best effort: a failed batch is logged and skipped,
// never raised to the caller. Returns the number of entries inserted.
func (m *Manager) Preload(ctx context.Context, namespace string, keys []string, load BatchLoader) int {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("preload", namespace)
		return 0
	}
	var inserted int
	batch := m.cfg.preloadBatchSize
	for start := 0; start < len(keys); start += batch {
		end := min(start+batch, len(keys))
		values, err := load(ctx, keys[start:end])
		if err != nil {
			m.logger.Warn("preload batch for namespace %s failed: %s", namespace, err)
			continue
		}
		now := time.Now()
		for key, val := range values {
			st.set(key, val, now)
			inserted++
		}
	}
	if inserted > 0 {
		m.logger.Debug("preloaded %d entries into namespace %s", inserted, namespace)
	}
	return inserted
}

// Warm runs the named loaders for one user and caches each result under
// "<name>:<userID>". Best effort: loader failures are logged, never
// raised. Returns the number of entries warmed.
func (m *Manager) Warm(ctx context.Context, namespace, userID string, loaders map[string]Loader) int {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("warm", namespace)
		return 0
	}
	var warmed int
	for name, load := range loaders {
		val, err := load(ctx)
		if err != nil {
			m.logger.Warn("warm loader %s for user %s failed: %s", name, userID, err)
			continue
		}
		st.set(name+":"+userID, val, time.Now())
		warmed++
	}
	return warmed
}
