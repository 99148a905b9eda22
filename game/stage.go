package game

import (
	"time"

	"tavern.club/faro/timer"
	"tavern.club/faro/util"
)

// scheduleCurrentStageLocked arms the stage a dormant table should be
// in: the pre-game gate before the first shoe, betting afterwards.
func (t *Table) scheduleCurrentStageLocked() {
	if t.started {
		t.scheduleStageLocked(StageBetting)
	} else {
		t.scheduleStageLocked(StageStart)
	}
}

// scheduleStageLocked enters a stage: fresh deadline, cleared
// readiness, and for betting windows a bumped round counter and a lock
// point shortly before the deadline. Resetting the stage timer
// replaces any pending deadline.
func (t *Table) scheduleStageLocked(stage Stage) {
	duration := t.mgr.timings.stageDuration(stage)
	t.stage = stage
	t.deadline = time.Now().Add(duration)
	t.lockAt = time.Time{}
	t.stageReady = make(map[string]bool)
	for _, seat := range t.seats {
		if seat != nil {
			seat.Ready = false
		}
	}
	if stage == StageBetting {
		t.round++
		if buffer := t.mgr.timings.lockBuffer(); buffer > 0 && buffer < duration {
			t.lockAt = t.deadline.Add(-buffer)
		}
	}
	t.broadcastStageLocked()

	err := t.stageTimer.Reset(timer.StageMsg{
		TableID:  t.id,
		Stage:    string(stage),
		Round:    t.round,
		ExpireAt: t.deadline,
	})
	if err != nil {
		tableLogger.Error().
			Str("tableID", t.id).
			Str("stage", string(stage)).
			Msgf("Unable to arm stage timer: %v", err)
	}
}

func (t *Table) broadcastStageLocked() {
	var deadline int64
	if !t.deadline.IsZero() {
		deadline = t.deadline.UnixMilli()
	}
	t.broadcastLocked(TableStageMsg{
		Type:     MsgTableStage,
		Stage:    t.stage,
		Deadline: deadline,
		Table:    t.snapshotLocked(),
	})
}

// resetIdleLocked halts the cycle on an empty table. The timer must be
// cancelled here, not left to expire on an abandoned table.
func (t *Table) resetIdleLocked() {
	t.stageTimer.Cancel()
	t.stage = StageNone
	t.deadline = time.Time{}
	t.lockAt = time.Time{}
	t.stageReady = make(map[string]bool)
	t.broadcastStageLocked()
}

// tryAdvanceLocked advances the stage as soon as every occupied seat
// has signaled readiness.
func (t *Table) tryAdvanceLocked() {
	if t.occupiedCountLocked() == 0 {
		t.resetIdleLocked()
		return
	}
	for _, seat := range t.seats {
		if seat != nil && !t.stageReady[seat.ID] {
			return
		}
	}
	t.stageTimer.Cancel()
	t.advanceLocked()
}

// advanceLocked is the single stage transition function, reached from
// the ready handler and the timer callback.
func (t *Table) advanceLocked() {
	if !t.started {
		t.startShoeLocked()
		t.scheduleStageLocked(StageBetting)
	} else if t.stage == StageBetting {
		t.dealCoupLocked()
		t.scheduleStageLocked(StageBetting)
	} else {
		t.scheduleStageLocked(StageBetting)
	}
}

// handleStageDeadline runs when the stage timer fires. Stale fires
// (the stage advanced or the timer was cancelled concurrently) are
// discarded by comparing the armed stage and round against the
// table's current state.
func (t *Table) handleStageDeadline(msg timer.StageMsg) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stage == StageNone || string(t.stage) != msg.Stage || t.round != msg.Round {
		tableLogger.Debug().
			Str("tableID", t.id).
			Str("stage", msg.Stage).
			Uint32("round", msg.Round).
			Msg("Discarding stale stage deadline")
		return
	}

	t.ejectNotReadyLocked()
	if t.occupiedCountLocked() == 0 {
		t.resetIdleLocked()
		return
	}
	t.advanceLocked()
}

// ejectNotReadyLocked removes every occupied seat that missed the
// deadline. Pending wagers are forfeited into the table: the balance
// is debited by the pending total before the seat is vacated.
func (t *Table) ejectNotReadyLocked() {
	changed := false
	for i, seat := range t.seats {
		if seat == nil || t.stageReady[seat.ID] {
			continue
		}
		var forfeit int64
		for _, b := range t.bets[seat.ID] {
			if b.Amount > 0 {
				forfeit += b.Amount
			}
		}
		if forfeit > 0 {
			seat.Balance -= forfeit
		}
		t.balances[lowerAddr(seat.Addr)] = seat.Balance
		delete(t.bets, seat.ID)
		delete(t.stageReady, seat.ID)

		seat.sub.Send(EjectMsg{Type: MsgEject, Reason: "Not ready in time", Forfeit: forfeit})

		t.seats[i] = nil
		if t.ownerID == seat.ID {
			t.ownerID = ""
		}
		util.Metrics.SeatEjected()
		changed = true

		tableLogger.Info().
			Str("tableID", t.id).
			Str("seatID", seat.ID).
			Str("addr", seat.Addr).
			Int64("forfeit", forfeit).
			Msg("Ejected seat not ready in time")
	}
	if changed {
		t.broadcastUpdateLocked()
	}
}
