package game

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"tavern.club/faro/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// Manager owns the table registry and the process-wide controls
// (pause, rake). Tables are created lazily on first reference and are
// fully independent of each other.
type Manager struct {
	mu      sync.RWMutex
	tables  map[string]*Table
	timings Timings

	stats     StatsTracker
	publisher EventPublisher

	adminAddrs map[string]bool

	ctrlMu      sync.Mutex
	paused      bool
	rakeBps     int64
	feesAccrued int64
}

func NewManager(timings Timings, stats StatsTracker, publisher EventPublisher, adminAddrs []string, rakeBps int64) *Manager {
	admins := make(map[string]bool)
	for _, a := range adminAddrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			admins[a] = true
		}
	}
	return &Manager{
		tables:     make(map[string]*Table),
		timings:    timings,
		stats:      stats,
		publisher:  publisher,
		adminAddrs: admins,
		rakeBps:    rakeBps,
	}
}

// GetTable returns the table with the given id, creating it on first
// reference. An empty id maps to the default lobby table.
func (m *Manager) GetTable(id string) *Table {
	if id == "" {
		id = "lobby"
	}

	m.mu.RLock()
	t, ok := m.tables[id]
	m.mu.RUnlock()
	if ok {
		return t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[id]; ok {
		return t
	}
	t = newTable(id, m)
	m.tables[id] = t
	util.Metrics.SetActiveTableCount(len(m.tables))
	managerLogger.Info().Str("tableID", id).Msg("Created table")
	return t
}

// TableSnapshots returns public snapshots of every table, for the REST
// listing endpoint.
func (m *Manager) TableSnapshots() []*TableSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshots := make([]*TableSnapshot, 0, len(m.tables))
	for _, t := range m.tables {
		snapshots = append(snapshots, t.Snapshot())
	}
	return snapshots
}

// FindTable returns the table with the given id without creating it.
func (m *Manager) FindTable(id string) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[id]
}

// DropSubscriber vacates any seat held by the connection across all
// tables and removes it from every subscriber set. Called on
// connection loss.
func (m *Manager) DropSubscriber(sub Subscriber) {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.RUnlock()

	for _, t := range tables {
		t.DropSubscriber(sub)
	}
}

// Stats returns the lifetime record for an address.
func (m *Manager) Stats(addr string) (*PlayerStats, error) {
	return m.stats.Load(addr)
}

// IsAdmin reports whether the self-declared address is on the admin
// allow-list. The address is unauthenticated at this layer; see the
// trust boundary note in the README.
func (m *Manager) IsAdmin(addr string) bool {
	return m.adminAddrs[strings.ToLower(addr)]
}

func (m *Manager) Paused() bool {
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	return m.paused
}

func (m *Manager) SetPaused(paused bool) RTStateMsg {
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	m.paused = paused
	return m.rtStateLocked()
}

func (m *Manager) RakeBps() int64 {
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	return m.rakeBps
}

// SetRakeBps clamps to [0, 1000] basis points.
func (m *Manager) SetRakeBps(bps int64) RTStateMsg {
	if bps < 0 {
		bps = 0
	}
	if bps > 1000 {
		bps = 1000
	}
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	m.rakeBps = bps
	return m.rtStateLocked()
}

func (m *Manager) ResetFees() RTStateMsg {
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	m.feesAccrued = 0
	return m.rtStateLocked()
}

func (m *Manager) accrueFees(fees int64) {
	if fees == 0 {
		return
	}
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	m.feesAccrued += fees
}

// RTState returns the current process-wide controls frame.
func (m *Manager) RTState() RTStateMsg {
	m.ctrlMu.Lock()
	defer m.ctrlMu.Unlock()
	return m.rtStateLocked()
}

func (m *Manager) rtStateLocked() RTStateMsg {
	return RTStateMsg{
		Type:        MsgRTState,
		Paused:      m.paused,
		RakeBps:     m.rakeBps,
		FeesAccrued: m.feesAccrued,
	}
}

// BroadcastAll sends a frame to every subscriber of every table. Used
// for process-wide control changes.
func (m *Manager) BroadcastAll(frame interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tables {
		t.Broadcast(frame)
	}
}
