package cache

// selectVictim scans the entries and returns the key to evict under the
// given strategy. The scan is O(n); eviction only happens when an insert
// finds the namespace at capacity.
func selectVictim(entries map[string]*entry, strategy Strategy) (string, bool) {
	var victimKey string
	var victim *entry
	for key, e := range entries {
		if victim == nil || evictBefore(strategy, e, victim) {
			victimKey, victim = key, e
		}
	}
	return victimKey, victim != nil
}

// evictBefore reports whether a is a better victim than b.
func evictBefore(strategy Strategy, a, b *entry) bool {
	switch strategy {
	case LFU:
		if a.accessCount != b.accessCount {
			return a.accessCount < b.accessCount
		}
		if !a.lastAccessedAt.Equal(b.lastAccessedAt) {
			return a.lastAccessedAt.Before(b.lastAccessedAt)
		}
	case FIFO:
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
	default: // LRU
		if !a.lastAccessedAt.Equal(b.lastAccessedAt) {
			return a.lastAccessedAt.Before(b.lastAccessedAt)
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
	}
	return a.seq < b.seq
}
