package game

import (
	"time"

	"tavern.club/faro/cards"
	"tavern.club/faro/util"
)

// PlaceBet appends a wager to the connection's seat for the active
// betting window. The balance is only touched at settlement; the
// bound check counts the window's already-pending wagers.
func (t *Table) PlaceBet(sub Subscriber, rankSymbol string, amount int64, copper bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mgr.Paused() {
		return PreconditionError{Msg: "paused"}
	}
	seat := t.seatOfLocked(sub)
	if seat == nil {
		return PreconditionError{Msg: "Sit first"}
	}
	if t.stage != StageBetting {
		return PreconditionError{Msg: "Not in betting stage"}
	}
	if !t.lockAt.IsZero() && !time.Now().Before(t.lockAt) {
		return PreconditionError{Msg: "Betting is locked for this round"}
	}
	rank := cards.RankIndex(rankSymbol)
	if rank < 0 {
		return ValidationError{Msg: "Invalid rank"}
	}
	if amount < MinBet || amount > MaxBet {
		return ValidationError{Msg: "Invalid amount"}
	}
	var pending int64
	for _, b := range t.bets[seat.ID] {
		pending += b.Amount
	}
	if pending+amount > seat.Balance {
		return ValidationError{Msg: "Insufficient balance"}
	}

	t.bets[seat.ID] = append(t.bets[seat.ID], Bet{Rank: rank, Amount: amount, Copper: copper})
	util.Metrics.BetPlaced()

	tableLogger.Debug().
		Str("tableID", t.id).
		Str("seatID", seat.ID).
		Str("addr", seat.Addr).
		Int64("amount", amount).
		Bool("copper", copper).
		Msgf("Bet placed on %s", rankSymbol)

	t.broadcastUpdateLocked()
	return nil
}

// betTotalsLocked sums the pending wagers per rank across all seats.
func (t *Table) betTotalsLocked() map[string]int64 {
	totals := make(map[string]int64)
	for _, seat := range t.seats {
		if seat == nil {
			continue
		}
		for _, b := range t.bets[seat.ID] {
			totals[cards.RankSymbol(b.Rank)] += b.Amount
		}
	}
	return totals
}

// betDetailLocked lists the pending wagers per rank with their owning
// addresses, for transparency in the broadcast.
func (t *Table) betDetailLocked() map[string][]BetDetail {
	detail := make(map[string][]BetDetail)
	for _, seat := range t.seats {
		if seat == nil {
			continue
		}
		for _, b := range t.bets[seat.ID] {
			sym := cards.RankSymbol(b.Rank)
			detail[sym] = append(detail[sym], BetDetail{
				Addr:   seat.Addr,
				Amount: b.Amount,
				Copper: b.Copper,
			})
		}
	}
	return detail
}
