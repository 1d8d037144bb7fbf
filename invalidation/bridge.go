// Package invalidation propagates cache deletions across instances that
// share an eventing bus topic. Delivery is at-most-once: duplicate events
// are idempotent no-op deletes, and a missed event only causes staleness
// bounded by the namespace TTL.
package invalidation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumenchat/cachekit/cache"
	"github.com/lumenchat/cachekit/eventing"
	"github.com/lumenchat/cachekit/logger"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultSubject is the bus subject invalidation events are published to
// when WithSubject is not given.
const DefaultSubject = "cache.invalidation"

// ErrPublishFailed indicates the bus rejected an invalidation publish.
// It is logged, never returned: local invalidation does not depend on the
// bus.
var ErrPublishFailed = errors.New("invalidation: publish failed")

// Event is the wire payload, msgpack-encoded. Origin identifies the
// publishing instance so it can skip its own events.
type Event struct {
	Namespace string   `msgpack:"namespace"`
	Keys      []string `msgpack:"keys"`
	Timestamp int64    `msgpack:"timestamp"`
	Origin    string   `msgpack:"origin"`
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithSubject overrides the bus subject. All instances sharing a cache
// must use the same subject.
func WithSubject(subject string) Option {
	return func(b *Bridge) { b.subject = subject }
}

// Bridge connects a local cache.Manager to the shared invalidation
// subject of an eventing bus.
type Bridge struct {
	manager *cache.Manager
	client  eventing.Client
	logger  logger.Logger
	subject string
	origin  string
}

// New returns a Bridge for the given manager and bus client. Call
// Subscribe to start applying remote invalidations.
func New(log logger.Logger, manager *cache.Manager, client eventing.Client, opts ...Option) *Bridge {
	b := &Bridge{
		manager: manager,
		client:  client,
		logger:  log.With(map[string]any{"component": "invalidation"}),
		subject: DefaultSubject,
		origin:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BroadcastInvalidation publishes an invalidation event for the keys and
// then deletes them locally. The local deletes are applied even when the
// publish fails; the publish failure is logged (ErrPublishFailed), never
// returned.
func (b *Bridge) BroadcastInvalidation(ctx context.Context, namespace string, keys []string) {
	if len(keys) == 0 {
		return
	}
	evt := Event{
		Namespace: namespace,
		Keys:      keys,
		Timestamp: time.Now().UnixMilli(),
		Origin:    b.origin,
	}
	if payload, err := msgpack.Marshal(evt); err != nil {
		b.logger.Error("failed to encode invalidation event for namespace %s: %s", namespace, err)
	} else if err := b.client.Publish(ctx, b.subject, payload); err != nil {
		b.logger.Error("%s for namespace %s: %s", ErrPublishFailed, namespace, err)
	}
	for _, key := range keys {
		b.manager.Delete(ctx, namespace, key)
	}
}

// Subscribe starts applying remote invalidation events to the local
// manager. The returned function releases the subscription; it is safe to
// call more than once.
func (b *Bridge) Subscribe(ctx context.Context) (func(), error) {
	sub, err := b.client.Subscribe(ctx, b.subject, func(ctx context.Context, msg eventing.Message) {
		var evt Event
		if err := msgpack.Unmarshal(msg.Data(), &evt); err != nil {
			b.logger.Error("failed to decode invalidation event: %s", err)
			return
		}
		if evt.Origin == b.origin {
			// Our own broadcast; the keys are already gone locally.
			return
		}
		var removed int
		for _, key := range evt.Keys {
			if b.manager.Delete(ctx, evt.Namespace, key) {
				removed++
			}
		}
		b.logger.Trace("applied remote invalidation of %d/%d keys in namespace %s", removed, len(evt.Keys), evt.Namespace)
	})
	if err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				b.logger.Warn("failed to close invalidation subscription: %s", err)
			}
		})
	}, nil
}
