package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy selects the eviction policy for a namespace.
type Strategy string

const (
	// LRU evicts the least recently accessed entry. Ties are broken by the
	// oldest creation time.
	LRU Strategy = "lru"
	// LFU evicts the least frequently accessed entry. Ties are broken by
	// the least recent access.
	LFU Strategy = "lfu"
	// FIFO evicts the oldest entry regardless of access pattern.
	FIFO Strategy = "fifo"
)

// ParseStrategy converts a string (case-insensitive) into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case LRU:
		return LRU, nil
	case LFU:
		return LFU, nil
	case FIFO:
		return FIFO, nil
	}
	return "", fmt.Errorf("cache: unknown eviction strategy %q", s)
}

// NamespaceConfig describes one logical cache. It is immutable once the
// namespace is registered; re-registering a namespace under the same name
// replaces it and discards its entries and stats.
type NamespaceConfig struct {
	// TTL is the maximum age of any entry. Expired entries are removed
	// lazily on access and proactively by the background sweeper.
	TTL time.Duration
	// MaxEntries caps the number of live entries. Inserting a new key at
	// capacity evicts exactly one entry chosen by Strategy. Overwriting an
	// existing key never evicts.
	MaxEntries int
	// Strategy selects the eviction policy.
	Strategy Strategy
}

func (c NamespaceConfig) Validate() error {
	if c.TTL <= 0 {
		return errors.New("cache: namespace TTL must be positive")
	}
	if c.MaxEntries <= 0 {
		return errors.New("cache: namespace max entries must be positive")
	}
	switch c.Strategy {
	case LRU, LFU, FIFO:
	default:
		return fmt.Errorf("cache: unknown eviction strategy %q", c.Strategy)
	}
	return nil
}

var (
	// ErrNamespaceNotFound indicates an operation addressed a namespace
	// that was never registered. Routing operations treat this as a no-op
	// and log it; only operations with an error return surface it.
	ErrNamespaceNotFound = errors.New("cache: namespace not found")

	// ErrFetchFailed wraps the error returned by a GetOrSet fetcher.
	// Nothing is cached for the key when the fetch fails.
	ErrFetchFailed = errors.New("cache: fetch failed")
)

// DefaultSweepInterval is how often the background sweeper purges expired
// entries when WithSweepInterval is not given.
const DefaultSweepInterval = time.Minute

// config holds the resolved configuration for a Manager.
type config struct {
	sweepInterval    time.Duration
	preloadBatchSize int
	singleFlight     bool
	catalog          Catalog
}

// Option configures a Manager.
type Option func(*config)

func defaultConfig() config {
	return config{
		sweepInterval:    DefaultSweepInterval,
		preloadBatchSize: DefaultPreloadBatchSize,
		catalog:          DefaultCatalog(),
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSweepInterval sets the interval for background expired entry
// cleanup. Defaults to DefaultSweepInterval (1 minute).
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.sweepInterval = d }
}

// WithSingleFlight makes concurrent GetOrSet misses on the same
// (namespace, key) share one in-flight fetch. Off by default: without it
// concurrent misses may each invoke their fetcher and the last write wins.
// Callers must not rely on fetcher invocation count either way.
func WithSingleFlight() Option {
	return func(c *config) { c.singleFlight = true }
}

// WithCatalog replaces the namespaces registered when the Manager is
// created. The default is DefaultCatalog; pass nil to start with no
// namespaces at all.
func WithCatalog(catalog Catalog) Option {
	return func(c *config) { c.catalog = catalog }
}

// WithPreloadBatchSize bounds how many keys Preload fetches per loader
// call. Defaults to DefaultPreloadBatchSize (50).
func WithPreloadBatchSize(n int) Option {
	return func(c *config) { c.preloadBatchSize = n }
}

// Get retrieves a typed value from the manager. It performs a direct type
// assertion on the stored value; a stored value of a different type is an
// error, not a miss.
func Get[T any](ctx context.Context, m *Manager, namespace, key string) (bool, T, error) {
	found, val := m.Get(ctx, namespace, key)
	if !found {
		var zero T
		return false, zero, nil
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		return false, zero, fmt.Errorf("cache: cannot convert value of type %T to %T", val, zero)
	}
	return true, typed, nil
}

// GetOrSet is the typed variant of Manager.GetOrSet.
func GetOrSet[T any](ctx context.Context, m *Manager, namespace, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	val, err := m.GetOrSet(ctx, namespace, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: cannot convert value of type %T to %T", val, zero)
	}
	return typed, nil
}
