package game

import "strings"

// PlayerStats is the lifetime record for an address across all tables.
type PlayerStats struct {
	Rounds    uint64 `json:"rounds"`
	Wagered   int64  `json:"wagered"`
	Won       int64  `json:"won"`
	Lost      int64  `json:"lost"`
	LastDelta int64  `json:"lastDelta"`
}

// StatsTracker persists lifetime per-address stats. Implementations
// must treat a missing address as a zero record on Load.
type StatsTracker interface {
	Load(addr string) (*PlayerStats, error)
	Save(addr string, stats *PlayerStats) error
	Remove(addr string) error
}

func statsKey(addr string) string {
	return strings.ToLower(addr)
}

// recordCoup folds one settled coup into the address's lifetime record.
func recordCoup(tracker StatsTracker, addr string, wagered int64, delta int64) error {
	stats, err := tracker.Load(addr)
	if err != nil {
		return err
	}
	stats.Rounds++
	stats.Wagered += wagered
	if delta > 0 {
		stats.Won += delta
	}
	if delta < 0 {
		stats.Lost += -delta
	}
	stats.LastDelta = delta
	return tracker.Save(addr, stats)
}
