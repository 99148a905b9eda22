package game

import "sync"

// MemoryStatsTracker keeps lifetime stats in process memory. This is
// the default tracker; records are lost on restart.
type MemoryStatsTracker struct {
	mu    sync.Mutex
	stats map[string]PlayerStats
}

func NewMemoryStatsTracker() *MemoryStatsTracker {
	return &MemoryStatsTracker{
		stats: make(map[string]PlayerStats),
	}
}

func (m *MemoryStatsTracker) Load(addr string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.stats[statsKey(addr)]
	return &stats, nil
}

func (m *MemoryStatsTracker) Save(addr string, stats *PlayerStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[statsKey(addr)] = *stats
	return nil
}

func (m *MemoryStatsTracker) Remove(addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, statsKey(addr))
	return nil
}
