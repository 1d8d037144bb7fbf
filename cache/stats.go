package cache

// Stats is a point-in-time snapshot of one namespace. Hits, Misses and
// Evictions are monotonic; TotalEntries and MemoryUsageBytes always match
// the live entry set.
type Stats struct {
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	Evictions        int64   `json:"evictions"`
	TotalEntries     int64   `json:"totalEntries"`
	MemoryUsageBytes int64   `json:"memoryUsageBytes"`
	HitRate          float64 `json:"hitRate"`
}
