package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tavern.club/faro/cards"
	"tavern.club/faro/timer"
)

var tableLogger = log.With().Str("logger_name", "game::table").Logger()

// Table is one faro table: six seats, a shoe, the stage machine and
// the pending bet ledger. All mutations go through the table mutex;
// the stage timer callback takes the same lock, so the transition
// function sees a consistent table from both call sites.
type Table struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	mgr       *Manager

	seats   [MaxSeats]*Seat
	ownerID string
	started bool
	coups   uint64

	stage    Stage
	deadline time.Time
	lockAt   time.Time
	round    uint32

	stageReady map[string]bool
	bets       map[string][]Bet

	// balances carries ledger balances by lowercased address so a
	// player who leaves and re-seats keeps their chips for the
	// lifetime of the table.
	balances map[string]int64

	shoe *cards.Shoe

	stageTimer  *timer.StageTimer
	subscribers map[string]Subscriber
}

func newTable(id string, mgr *Manager) *Table {
	t := &Table{
		id:          id,
		createdAt:   time.Now(),
		mgr:         mgr,
		stageReady:  make(map[string]bool),
		bets:        make(map[string][]Bet),
		balances:    make(map[string]int64),
		shoe:        cards.NewShoe(),
		subscribers: make(map[string]Subscriber),
	}
	// The callback must not block the timer loop; the handler takes
	// the table lock.
	t.stageTimer = timer.NewStageTimer(id, func(msg timer.StageMsg) {
		go t.handleStageDeadline(msg)
	}, nil)
	t.stageTimer.Run()
	return t
}

func (t *Table) ID() string {
	return t.id
}

// Join adds the connection to the table's subscriber set and returns
// the round from which it may take a seat. A connection joining a
// table already in progress must wait out the current round.
func (t *Table) Join(sub Subscriber) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subscribers[sub.ID()] = sub
	allowedRound := t.round
	if t.started {
		allowedRound = t.round + 1
	}
	sub.Send(t.updateMsgLocked())
	if t.stage == StageNone {
		t.scheduleCurrentStageLocked()
	}
	return allowedRound
}

// Occupy claims a slot for the connection. At most one seat per
// connection: any other slot it held is carried over atomically.
func (t *Table) Occupy(sub Subscriber, seatIndex int, addr string, allowedRound uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subscribers[sub.ID()]; !ok {
		return PreconditionError{Msg: "Join a table first"}
	}
	if seatIndex < 0 || seatIndex >= MaxSeats {
		return ValidationError{Msg: "Invalid seat index"}
	}
	// Spectate-until-next-round gate for tables already in progress.
	if t.started && t.round < allowedRound {
		return PreconditionError{Msg: "Wait until next round to join"}
	}
	if existing := t.seats[seatIndex]; existing != nil && existing.sub.ID() != sub.ID() {
		return SeatTakenError{SeatIndex: seatIndex}
	}

	// Carry the connection's existing seat to the new slot, keeping
	// its identity, readiness and balance.
	var seat *Seat
	for i, s := range t.seats {
		if s != nil && s.sub.ID() == sub.ID() {
			seat = s
			t.seats[i] = nil
		}
	}
	if seat == nil {
		seat = &Seat{
			ID:      uuid.NewString(),
			Addr:    addr,
			Balance: t.balanceFor(addr),
			sub:     sub,
		}
	}
	t.seats[seatIndex] = seat
	if t.ownerID == "" {
		t.ownerID = seat.ID
	}

	tableLogger.Info().
		Str("tableID", t.id).
		Str("seatID", seat.ID).
		Str("addr", seat.Addr).
		Int("seatNo", seatIndex).
		Msg("Seat occupied")

	t.broadcastUpdateLocked()
	if t.stage == StageNone {
		t.scheduleCurrentStageLocked()
	}
	return nil
}

func (t *Table) balanceFor(addr string) int64 {
	if bal, ok := t.balances[lowerAddr(addr)]; ok {
		return bal
	}
	return InitialBalance
}

// Vacate empties the connection's seat, if any.
func (t *Table) Vacate(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.vacateLocked(sub) {
		t.broadcastUpdateLocked()
	}
}

func (t *Table) vacateLocked(sub Subscriber) bool {
	changed := false
	for i, seat := range t.seats {
		if seat == nil || seat.sub.ID() != sub.ID() {
			continue
		}
		t.balances[lowerAddr(seat.Addr)] = seat.Balance
		delete(t.bets, seat.ID)
		delete(t.stageReady, seat.ID)
		t.seats[i] = nil
		if t.ownerID == seat.ID {
			t.ownerID = ""
		}
		changed = true
	}
	if changed && t.occupiedCountLocked() == 0 {
		t.resetIdleLocked()
	}
	return changed
}

// DropSubscriber handles connection loss: the seat is vacated and the
// connection is removed from the subscriber set.
func (t *Table) DropSubscriber(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.subscribers[sub.ID()]; !ok {
		return
	}
	delete(t.subscribers, sub.ID())
	if t.vacateLocked(sub) {
		t.broadcastUpdateLocked()
	}
}

// SetReady toggles the connection's readiness for the current stage.
// When every occupied seat is ready the stage advances immediately.
func (t *Table) SetReady(sub Subscriber, ready bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat := t.seatOfLocked(sub)
	if seat == nil {
		return PreconditionError{Msg: "Sit first"}
	}
	if t.stage == StageNone {
		t.scheduleCurrentStageLocked()
	}
	seat.Ready = ready
	if ready {
		t.stageReady[seat.ID] = true
	} else {
		delete(t.stageReady, seat.ID)
	}
	t.broadcastStageLocked()
	t.tryAdvanceLocked()
	return nil
}

// Start lets the table owner open the first shoe once every seated
// player is ready.
func (t *Table) Start(sub Subscriber) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mgr.Paused() {
		return PreconditionError{Msg: "paused"}
	}
	actor := t.seatOfLocked(sub)
	if actor == nil || actor.ID != t.ownerID {
		return PreconditionError{Msg: "Only owner can start"}
	}
	if t.occupiedCountLocked() == 0 {
		return nil
	}
	for _, seat := range t.seats {
		if seat != nil && !seat.Ready {
			return PreconditionError{Msg: "All players must ready"}
		}
	}
	t.startShoeLocked()
	t.scheduleStageLocked(StageBetting)
	return nil
}

// Deal lets the owner settle the current round out-of-band from the
// deadline cycle. A fresh betting window follows.
func (t *Table) Deal(sub Subscriber) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mgr.Paused() {
		return PreconditionError{Msg: "paused"}
	}
	actor := t.seatOfLocked(sub)
	if actor == nil || actor.ID != t.ownerID {
		return PreconditionError{Msg: "Only owner can deal"}
	}
	if !t.started {
		return PreconditionError{Msg: "Start the shoe first"}
	}
	t.dealCoupLocked()
	t.scheduleStageLocked(StageBetting)
	return nil
}

// Chat relays a message to everyone at the table.
func (t *Table) Chat(from string, text string) {
	if len(text) > MaxChatLen {
		text = text[:MaxChatLen]
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcastLocked(ChatMsg{Type: MsgChat, From: from, Text: text})
}

// SetAvatar attaches a small image reference to the connection's seat.
func (t *Table) SetAvatar(sub Subscriber, data string, url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat := t.seatOfLocked(sub)
	if seat == nil {
		return PreconditionError{Msg: "Sit first"}
	}
	switch {
	case data != "":
		if !strings.HasPrefix(data, "data:") || len(data) > MaxAvatarDataLen {
			return ValidationError{Msg: "Invalid avatar data"}
		}
		seat.Avatar = data
	case url != "":
		if len(url) > MaxAvatarURLLen || !(strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
			return ValidationError{Msg: "Invalid avatar url"}
		}
		seat.Avatar = url
	default:
		return ValidationError{Msg: "Missing avatar"}
	}
	t.broadcastUpdateLocked()
	return nil
}

func (t *Table) startShoeLocked() {
	t.started = true
	t.shoe = cards.NewShoe()
	t.bets = make(map[string][]Bet)
	t.broadcastLocked(TableStartedMsg{Type: MsgTableStarted, Table: t.snapshotLocked()})
}

func (t *Table) seatOfLocked(sub Subscriber) *Seat {
	for _, seat := range t.seats {
		if seat != nil && seat.sub.ID() == sub.ID() {
			return seat
		}
	}
	return nil
}

func (t *Table) occupiedCountLocked() int {
	count := 0
	for _, seat := range t.seats {
		if seat != nil {
			count++
		}
	}
	return count
}

// Snapshot returns the public view of the table.
func (t *Table) Snapshot() *TableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() *TableSnapshot {
	seats := make([]*SeatSnapshot, MaxSeats)
	for i, seat := range t.seats {
		if seat == nil {
			continue
		}
		var pending int64
		for _, b := range t.bets[seat.ID] {
			pending += b.Amount
		}
		seats[i] = &SeatSnapshot{
			ID:      seat.ID,
			Addr:    seat.Addr,
			Ready:   seat.Ready,
			Balance: seat.Balance,
			Pending: pending,
			Avatar:  seat.Avatar,
		}
	}
	var deadline, lockAt int64
	if !t.deadline.IsZero() {
		deadline = t.deadline.UnixMilli()
	}
	if !t.lockAt.IsZero() {
		lockAt = t.lockAt.UnixMilli()
	}
	return &TableSnapshot{
		ID:        t.id,
		CreatedAt: t.createdAt.UnixMilli(),
		Started:   t.started,
		OwnerID:   t.ownerID,
		Stage:     t.stage,
		Deadline:  deadline,
		Round:     t.round,
		LockAt:    lockAt,
		Seats:     seats,
	}
}

// Broadcast fans a frame out to every subscriber at the table.
func (t *Table) Broadcast(frame interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.broadcastLocked(frame)
}

func (t *Table) broadcastLocked(frame interface{}) {
	for _, sub := range t.subscribers {
		sub.Send(frame)
	}
	t.mgr.publisher.PublishTableEvent(t.id, frame)
}

func (t *Table) updateMsgLocked() TableUpdateMsg {
	msg := TableUpdateMsg{Type: MsgTableUpdate, Table: t.snapshotLocked()}
	if len(t.bets) > 0 {
		msg.Bets = t.betTotalsLocked()
		msg.BetsDetail = t.betDetailLocked()
	}
	return msg
}

func (t *Table) broadcastUpdateLocked() {
	t.broadcastLocked(t.updateMsgLocked())
}
