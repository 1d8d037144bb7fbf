package eventing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	client := NewInProcClient()
	defer client.Close()

	var received []Message
	sub, err := client.Subscribe(ctx, "test.subject", func(ctx context.Context, msg Message) {
		received = append(received, msg)
	})
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, client.Publish(ctx, "test.subject", []byte("hello"), WithHeader("k", "v")))
	require.Len(t, received, 1)
	assert.Equal(t, []byte("hello"), received[0].Data())
	assert.Equal(t, "v", received[0].Headers().Get("k"))

	// Other subjects do not deliver here.
	require.NoError(t, client.Publish(ctx, "other.subject", []byte("nope")))
	assert.Len(t, received, 1)
}

func TestInProcMultipleSubscribers(t *testing.T) {
	ctx := context.Background()
	client := NewInProcClient()
	defer client.Close()

	var a, b int
	subA, err := client.Subscribe(ctx, "subject", func(ctx context.Context, msg Message) { a++ })
	require.NoError(t, err)
	defer subA.Close()
	subB, err := client.Subscribe(ctx, "subject", func(ctx context.Context, msg Message) { b++ })
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, "subject", []byte("1")))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)

	// After unsubscribing b, only a keeps receiving.
	require.NoError(t, subB.Close())
	require.NoError(t, client.Publish(ctx, "subject", []byte("2")))
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

func TestInProcClosedClient(t *testing.T) {
	ctx := context.Background()
	client := NewInProcClient()
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.Publish(ctx, "subject", []byte("x")), ErrClientClosed)
	_, err := client.Subscribe(ctx, "subject", func(ctx context.Context, msg Message) {})
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestHeaders(t *testing.T) {
	h := Headers{"key": "value"}
	assert.Equal(t, "value", h.Get("key"))
	assert.Equal(t, "", h.Get("nonexistent"))

	h.Set("key", "new-value")
	assert.Equal(t, "new-value", h.Get("key"))

	h.Set("other", "x")
	keys := h.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "key")
	assert.Contains(t, keys, "other")
}
