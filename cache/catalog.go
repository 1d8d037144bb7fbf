package cache

import (
	"fmt"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

// Catalog maps namespace names to their configuration.
type Catalog map[string]NamespaceConfig

// DefaultCatalog returns the namespaces a typical deployment registers at
// startup: retrieval results, model responses, user sessions, documents
// and service configuration. Callers are free to add more.
func DefaultCatalog() Catalog {
	return Catalog{
		"rag":          {TTL: 10 * time.Minute, MaxEntries: 500, Strategy: LRU},
		"ai_responses": {TTL: 5 * time.Minute, MaxEntries: 1000, Strategy: LFU},
		"sessions":     {TTL: 15 * time.Minute, MaxEntries: 200, Strategy: LRU},
		"documents":    {TTL: 30 * time.Minute, MaxEntries: 500, Strategy: LRU},
		"config":       {TTL: time.Hour, MaxEntries: 100, Strategy: LRU},
	}
}

type catalogFile struct {
	Namespaces map[string]catalogEntry `yaml:"namespaces"`
}

type catalogEntry struct {
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
	Strategy   string `yaml:"strategy"`
}

// LoadCatalog parses a YAML namespace catalog:
//
//	namespaces:
//	  sessions:
//	    ttl: 15m
//	    max_entries: 200
//	    strategy: lru
//
// TTLs accept extended duration syntax such as "90s", "10m" or "1d12h".
func LoadCatalog(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cache: failed to parse catalog: %w", err)
	}
	catalog := make(Catalog, len(file.Namespaces))
	for name, e := range file.Namespaces {
		ttl, err := str2duration.ParseDuration(e.TTL)
		if err != nil {
			return nil, fmt.Errorf("cache: invalid ttl for namespace %s: %w", name, err)
		}
		strategy, err := ParseStrategy(e.Strategy)
		if err != nil {
			return nil, fmt.Errorf("cache: invalid strategy for namespace %s: %w", name, err)
		}
		cfg := NamespaceConfig{TTL: ttl, MaxEntries: e.MaxEntries, Strategy: strategy}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("cache: namespace %s: %w", name, err)
		}
		catalog[name] = cfg
	}
	return catalog, nil
}

// RegisterCatalog registers every namespace in the catalog on the
// manager.
func (m *Manager) RegisterCatalog(catalog Catalog) error {
	for name, cfg := range catalog {
		if err := m.CreateNamespace(name, cfg); err != nil {
			return err
		}
	}
	return nil
}
