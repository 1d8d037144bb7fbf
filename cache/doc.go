// Package cache implements a process-local, multi-namespace in-memory
// cache with TTL expiry, pluggable eviction and per-namespace statistics.
//
// # Namespaces
//
// A [Manager] is a registry of isolated namespaces. Each namespace has its
// own [NamespaceConfig] (TTL, capacity, eviction [Strategy]), its own
// entry map guarded by its own mutex, and its own [Stats]. The namespaces
// of [DefaultCatalog] are pre-registered at startup; [WithCatalog]
// replaces them (nil for none). Callers address everything by
// (namespace, key):
//
//	m := cache.New(ctx, log)
//	defer m.Close()
//
//	m.Set(ctx, "sessions", "sess_42", session)
//	found, val := m.Get(ctx, "sessions", "sess_42")
//
// Operations against a namespace that was never registered are non-fatal:
// they log a warning and return the operation's no-op value (absent,
// false, or no effect).
//
// # Expiry and eviction
//
// An entry is never returned once it is older than the namespace TTL; it
// is removed lazily on access or proactively by the background sweeper the
// Manager runs (interval via [WithSweepInterval]). Overwriting a key
// restarts its TTL.
//
// Inserting a new key into a namespace at capacity evicts exactly one
// entry first. [LRU] picks the least recently accessed entry (ties broken
// by oldest creation), [LFU] the least frequently accessed (ties broken by
// least recent access), [FIFO] the oldest. Overwrites never evict.
//
// # Read-through and memoization
//
// [Manager.GetOrSet] and the typed [GetOrSet] helper combine lookup and
// population: on a miss the caller-supplied fetcher runs and its result is
// cached. A fetcher error is returned wrapped in [ErrFetchFailed] and
// nothing is cached. By default concurrent misses on the same key may each
// invoke their fetcher (last write wins); [WithSingleFlight] collapses
// them into one shared fetch. Callers must not rely on fetcher invocation
// count either way.
//
// [Memoize] turns any function into a cached one, keyed by its arguments
// via [ArgsKey] (xxhash over the msgpack encoding of each argument).
//
// # Statistics
//
// [Manager.GetStats] returns a [Stats] snapshot per namespace: monotonic
// hit/miss/eviction counters, the live entry count, the summed msgpack
// size of live values, and the derived hit rate. [Manager.Clear] drops
// entries but keeps the monotonic counters.
//
// # Warming
//
// [Manager.Preload] and [Manager.Warm] are best-effort helpers that bulk
// load values through caller-supplied loaders in bounded batches. Loader
// failures are logged and skipped, never raised; warming is an
// optimization, not a correctness-critical path.
//
// Cross-instance invalidation lives in the invalidation package, built on
// the eventing bus.
package cache
