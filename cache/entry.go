package cache

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// entry is owned exclusively by its store; all fields are guarded by the
// store mutex.
type entry struct {
	value          any
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    int64
	sizeBytes      int64
	// seq is a per-store monotonic insertion counter, the final tie-break
	// when timestamps collide.
	seq uint64
}

// estimateSize returns the msgpack-encoded size of val. Values that cannot
// be encoded (functions, channels) count as zero bytes.
func estimateSize(val any) int64 {
	data, err := msgpack.Marshal(val)
	if err != nil {
		return 0
	}
	return int64(len(data))
}
