package cache

import (
	"regexp"
	"sync"
	"time"
)

// store holds one namespace's entries and stats. All access goes through
// the mutex: caller goroutines, the sweeper and invalidation callbacks
// all touch the same map.
type store struct {
	cfg   NamespaceConfig
	mutex sync.Mutex

	entries map[string]*entry
	seq     uint64

	hits      int64
	misses    int64
	evictions int64
	memory    int64
}

func newStore(cfg NamespaceConfig) *store {
	return &store{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

func (s *store) expired(e *entry, now time.Time) bool {
	return now.Sub(e.createdAt) > s.cfg.TTL
}

// removeLocked deletes an entry and keeps the memory counter in sync.
// Callers must hold the mutex.
func (s *store) removeLocked(key string, e *entry) {
	delete(s.entries, key)
	s.memory -= e.sizeBytes
}

func (s *store) get(key string, now time.Time) (any, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if s.expired(e, now) {
		s.removeLocked(key, e)
		s.misses++
		return nil, false
	}
	e.accessCount++
	e.lastAccessedAt = now
	s.hits++
	return e.value, true
}

func (s *store) set(key string, val any, now time.Time) {
	size := estimateSize(val)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if e, ok := s.entries[key]; ok {
		// Overwrite restarts the TTL and never triggers eviction.
		s.memory += size - e.sizeBytes
		s.seq++
		e.value = val
		e.createdAt = now
		e.lastAccessedAt = now
		e.accessCount = 1
		e.sizeBytes = size
		e.seq = s.seq
		return
	}
	if len(s.entries) >= s.cfg.MaxEntries {
		if victim, ok := selectVictim(s.entries, s.cfg.Strategy); ok {
			s.removeLocked(victim, s.entries[victim])
			s.evictions++
		}
	}
	s.seq++
	s.entries[key] = &entry{
		value:          val,
		createdAt:      now,
		lastAccessedAt: now,
		accessCount:    1,
		sizeBytes:      size,
		seq:            s.seq,
	}
	s.memory += size
}

func (s *store) delete(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.removeLocked(key, e)
	return true
}

// clear drops every entry. The hit/miss/eviction counters survive.
func (s *store) clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries = make(map[string]*entry)
	s.memory = 0
}

func (s *store) invalidatePattern(re *regexp.Regexp) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var removed int
	for key, e := range s.entries {
		if re.MatchString(key) {
			s.removeLocked(key, e)
			removed++
		}
	}
	return removed
}

func (s *store) sweepExpired(now time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var removed int
	for key, e := range s.entries {
		if s.expired(e, now) {
			s.removeLocked(key, e)
			removed++
		}
	}
	return removed
}

func (s *store) snapshot() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	stats := Stats{
		Hits:             s.hits,
		Misses:           s.misses,
		Evictions:        s.evictions,
		TotalEntries:     int64(len(s.entries)),
		MemoryUsageBytes: s.memory,
	}
	if total := s.hits + s.misses; total > 0 {
		stats.HitRate = float64(s.hits) / float64(total)
	}
	return stats
}
