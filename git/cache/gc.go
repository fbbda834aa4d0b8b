package cache

import (
	"sync"
	"time"
)

// StartGC prunes the cache every interval with the given strategies until
// the returned stop function is called. Stop blocks until the collector has
// exited and may be called more than once.
//
//	stop := mgr.StartGC(time.Hour, cache.PruneOlderThan(30*24*time.Hour))
//	defer stop()
func (m *Manager) StartGC(interval time.Duration, strategies ...PruneStrategy) (stop func()) {
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Go(func() { m.collect(done, interval, strategies) })

	return sync.OnceFunc(func() {
		close(done)
		wg.Wait()
	})
}

func (m *Manager) collect(done <-chan struct{}, interval time.Duration, strategies []PruneStrategy) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		removed, err := m.Prune(strategies...)
		if len(removed) > 0 {
			m.logger.Info("cache gc evicted repositories", "count", len(removed), "repos", removed)
		}
		if err != nil {
			m.logger.Warn("cache gc failed", "error", err)
		}
	}
}
