package timer

import (
	"sort"
	"sync"
	"time"
)

// Metrics is an in-memory Recorder aggregating durations per operation.
type Metrics struct {
	mu  sync.RWMutex
	ops map[string]*OperationStats
}

// OperationStats summarizes the recorded durations of one operation.
type OperationStats struct {
	Name  string
	Count int64
	Total time.Duration
	Max   time.Duration
	Last  time.Duration
}

// Average returns the mean duration, or zero when nothing was recorded.
func (s OperationStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var _ Recorder = (*Metrics)(nil)

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{ops: make(map[string]*OperationStats)}
}

// RecordLatency records one duration for operation.
func (m *Metrics) RecordLatency(operation string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.ops[operation]
	if !ok {
		stats = &OperationStats{Name: operation}
		m.ops[operation] = stats
	}
	stats.Count++
	stats.Total += duration
	stats.Last = duration
	if duration > stats.Max {
		stats.Max = duration
	}
}

// Get returns the stats for operation.
func (m *Metrics) Get(operation string) (OperationStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats, ok := m.ops[operation]
	if !ok {
		return OperationStats{}, false
	}
	return *stats, true
}

// Snapshot returns the stats of every operation sorted by name.
func (m *Metrics) Snapshot() []OperationStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]OperationStats, 0, len(m.ops))
	for _, stats := range m.ops {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
