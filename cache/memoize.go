package cache

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// MemoizeConfig configures Memoize.
type MemoizeConfig struct {
	// Namespace holds the memoized results. Required, and must be
	// registered on the manager before the wrapped function is called.
	Namespace string
	// Key builds the cache key from the call arguments. Defaults to
	// ArgsKey with the namespace as prefix.
	Key func(args ...any) string
}

// Memoize wraps fn so results are cached per argument list in the
// configured namespace, with the namespace's TTL. The returned function
// has the same concurrent-miss semantics as Manager.GetOrSet.
func Memoize[T any](m *Manager, cfg MemoizeConfig, fn func(ctx context.Context, args ...any) (T, error)) func(ctx context.Context, args ...any) (T, error) {
	keyFn := cfg.Key
	if keyFn == nil {
		keyFn = func(args ...any) string {
			return ArgsKey(cfg.Namespace, args...)
		}
	}
	return func(ctx context.Context, args ...any) (T, error) {
		return GetOrSet(ctx, m, cfg.Namespace, keyFn(args...), func(ctx context.Context) (T, error) {
			return fn(ctx, args...)
		})
	}
}

// ArgsKey derives a stable cache key from a prefix and the msgpack
// encoding of each argument. Arguments that cannot be encoded fall back
// to their fmt representation.
func ArgsKey(prefix string, args ...any) string {
	h := xxhash.New()
	for _, arg := range args {
		if data, err := msgpack.Marshal(arg); err == nil {
			_, _ = h.Write(data)
		} else {
			_, _ = fmt.Fprintf(h, "%v", arg)
		}
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%016x", prefix, h.Sum64())
}
