package cache

import (
	"errors"
	"fmt"
	"time"
)

func (m *Manager) run() {
	defer m.waitGroup.Done()
	ticker := time.NewTicker(m.cfg.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.SweepNow(time.Now())
		}
	}
}

// SweepNow removes expired entries from every registered namespace, so a
// cold namespace with no traffic still has its memory bounded by TTL. A
// failure in one namespace does not stop the sweep of the others; the
// aggregate error is logged and returned.
func (m *Manager) SweepNow(now time.Time) (int, error) {
	m.mutex.RLock()
	stores := make(map[string]*store, len(m.stores))
	for name, st := range m.stores {
		stores[name] = st
	}
	m.mutex.RUnlock()

	var total int
	var errs []error
	for name, st := range stores {
		removed, err := sweepStore(st, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("namespace %s: %w", name, err))
			continue
		}
		if removed > 0 {
			m.logger.Debug("swept %d expired entries from namespace %s", removed, name)
		}
		total += removed
	}
	err := errors.Join(errs...)
	if err != nil {
		m.logger.Error("expired entry sweep partially failed: %s", err)
	}
	return total, err
}

// sweepStore isolates a panicking sweep so the remaining namespaces still
// get swept.
func sweepStore(st *store, now time.Time) (removed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panicked: %v", r)
		}
	}()
	return st.sweepExpired(now), nil
}
