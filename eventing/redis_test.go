package eventing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRedisPayloadEnvelope(t *testing.T) {
	msg := newPubRedisMessage([]byte("payload"), WithHeader("k1", "v1"), WithHeader("k2", "v2"))
	assert.Equal(t, []byte("payload"), msg.Data())
	assert.Equal(t, "v1", msg.Headers().Get("k1"))
	assert.Equal(t, "v2", msg.Headers().Get("k2"))

	// Round-trip through the wire encoding.
	encoded, err := msgpack.Marshal(msg)
	require.NoError(t, err)
	var decoded redisMsgPayload
	require.NoError(t, msgpack.Unmarshal(encoded, &decoded))
	assert.Equal(t, msg.InternalData, decoded.InternalData)
	assert.Equal(t, msg.InternalHeaders, decoded.InternalHeaders)
}

func TestWithHeader(t *testing.T) {
	opts := &publishOptions{}

	WithHeader("key1", "value1")(opts)
	assert.Len(t, opts.Headers, 1)
	assert.Equal(t, []string{"key1", "value1"}, opts.Headers[0])

	WithHeader("key2", "value2")(opts)
	assert.Len(t, opts.Headers, 2)
	assert.Equal(t, []string{"key2", "value2"}, opts.Headers[1])
}
