package cache

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/lumenchat/cachekit/logger"
	"golang.org/x/sync/singleflight"
)

// Fetcher produces a value for GetOrSet on a cache miss. It may be slow
// and it may fail; a failure is propagated and nothing is cached.
type Fetcher func(ctx context.Context) (any, error)

// Manager is the registry of namespace stores. It owns the background
// sweeper; Close must be called to stop it. Create one per process and
// pass it explicitly: there is no package-level instance.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger logger.Logger
	cfg    config

	mutex  sync.RWMutex
	stores map[string]*store

	flight *singleflight.Group

	waitGroup sync.WaitGroup
	once      sync.Once
}

// New returns a Manager and starts its sweeper. The default catalog (or
// the one given via WithCatalog) is registered before the first sweep.
func New(parent context.Context, log logger.Logger, opts ...Option) *Manager {
	cfg := applyOptions(opts)
	ctx, cancel := context.WithCancel(parent)
	m := &Manager{
		ctx:    ctx,
		cancel: cancel,
		logger: log.With(map[string]any{"component": "cache"}),
		cfg:    cfg,
		stores: make(map[string]*store),
	}
	if cfg.singleFlight {
		m.flight = &singleflight.Group{}
	}
	if cfg.catalog != nil {
		if err := m.RegisterCatalog(cfg.catalog); err != nil {
			m.logger.Error("failed to register namespace catalog: %s", err)
		}
	}
	m.waitGroup.Add(1)
	go m.run()
	return m
}

// CreateNamespace registers a namespace. Registering an existing name
// replaces its store, discarding prior entries and stats.
func (m *Manager) CreateNamespace(name string, cfg NamespaceConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cache: namespace %s: %w", name, err)
	}
	m.mutex.Lock()
	m.stores[name] = newStore(cfg)
	m.mutex.Unlock()
	m.logger.Debug("registered namespace %s (ttl=%s maxEntries=%d strategy=%s)", name, cfg.TTL, cfg.MaxEntries, cfg.Strategy)
	return nil
}

// Namespaces returns the currently registered namespace names.
func (m *Manager) Namespaces() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.stores))
	for name := range m.stores {
		names = append(names, name)
	}
	return names
}

func (m *Manager) store(name string) *store {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.stores[name]
}

func (m *Manager) warnUnknown(op, namespace string) {
	m.logger.Warn("%s addressed unregistered namespace %s", op, namespace)
}

// Get returns the live value for (namespace, key). Expired entries are
// removed on the spot and count as a miss. An unregistered namespace is a
// logged no-op.
func (m *Manager) Get(_ context.Context, namespace, key string) (bool, any) {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("get", namespace)
		return false, nil
	}
	val, found := st.get(key, time.Now())
	return found, val
}

// Set stores a value, evicting one entry first if the namespace is at
// capacity and key is new. Returns false only when the namespace is not
// registered.
func (m *Manager) Set(_ context.Context, namespace, key string, val any) bool {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("set", namespace)
		return false
	}
	st.set(key, val, time.Now())
	return true
}

// Delete removes a key and reports whether anything was removed.
func (m *Manager) Delete(_ context.Context, namespace, key string) bool {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("delete", namespace)
		return false
	}
	return st.delete(key)
}

// Clear drops all entries in the namespace. Hit/miss/eviction counters
// are kept.
func (m *Manager) Clear(_ context.Context, namespace string) {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("clear", namespace)
		return
	}
	st.clear()
}

// InvalidatePattern deletes every key matching the regular expression and
// returns how many were deleted.
func (m *Manager) InvalidatePattern(_ context.Context, namespace, pattern string) (int, error) {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("invalidatePattern", namespace)
		return 0, fmt.Errorf("%w: %s", ErrNamespaceNotFound, namespace)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("cache: invalid invalidation pattern %q: %w", pattern, err)
	}
	return st.invalidatePattern(re), nil
}

// GetOrSet returns the cached value for key, or invokes fetch on a miss
// and caches its result. A fetch failure is returned wrapped in
// ErrFetchFailed and nothing is cached. Without WithSingleFlight,
// concurrent misses on the same key may each invoke fetch; the last write
// wins.
func (m *Manager) GetOrSet(ctx context.Context, namespace, key string, fetch Fetcher) (any, error) {
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("getOrSet", namespace)
		return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, namespace)
	}
	if val, found := st.get(key, time.Now()); found {
		return val, nil
	}
	fetchAndStore := func() (any, error) {
		val, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w for %s/%s: %w", ErrFetchFailed, namespace, key, err)
		}
		st.set(key, val, time.Now())
		return val, nil
	}
	if m.flight == nil {
		return fetchAndStore()
	}
	val, err, _ := m.flight.Do(namespace+"\x00"+key, func() (any, error) {
		// Re-check under the flight: a concurrent fetch may have landed.
		if cached, found := st.get(key, time.Now()); found {
			return cached, nil
		}
		return fetchAndStore()
	})
	return val, err
}

// GetBatch applies Get per key. Misses are simply absent from the result;
// the call itself never fails.
func (m *Manager) GetBatch(_ context.Context, namespace string, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("getBatch", namespace)
		return out
	}
	now := time.Now()
	for _, key := range keys {
		if val, found := st.get(key, now); found {
			out[key] = val
		}
	}
	return out
}

// SetBatch applies Set per key. Each result reflects whether the
// namespace was registered; there is no cross-key atomicity.
func (m *Manager) SetBatch(_ context.Context, namespace string, entries map[string]any) map[string]bool {
	out := make(map[string]bool, len(entries))
	st := m.store(namespace)
	if st == nil {
		m.warnUnknown("setBatch", namespace)
		for key := range entries {
			out[key] = false
		}
		return out
	}
	now := time.Now()
	for key, val := range entries {
		st.set(key, val, now)
		out[key] = true
	}
	return out
}

// GetStats returns a snapshot of one namespace's stats.
func (m *Manager) GetStats(namespace string) (Stats, bool) {
	st := m.store(namespace)
	if st == nil {
		return Stats{}, false
	}
	return st.snapshot(), true
}

// GetAllStats returns a snapshot of every namespace's stats.
func (m *Manager) GetAllStats() map[string]Stats {
	m.mutex.RLock()
	stores := make(map[string]*store, len(m.stores))
	for name, st := range m.stores {
		stores[name] = st
	}
	m.mutex.RUnlock()
	out := make(map[string]Stats, len(stores))
	for name, st := range stores {
		out[name] = st.snapshot()
	}
	return out
}

// Close stops the sweeper and waits for it to exit. Safe to call more
// than once.
func (m *Manager) Close() error {
	m.once.Do(func() {
		m.cancel()
		m.waitGroup.Wait()
	})
	return nil
}
