package game

import (
	"tavern.club/faro/cards"
	"tavern.club/faro/util"
)

// dealCoupLocked resolves one coup: burn the ceremonial card once per
// shoe lifetime, draw bank then player, settle every pending wager and
// clear the ledger.
//
// Sign rule: a bet on the bank rank loses its stake, a bet on the
// player rank wins it; copper inverts both. On a doublet (bank ==
// player) a bet on the matched rank loses half its stake rounded down
// regardless of copper, and everything else pushes.
func (t *Table) dealCoupLocked() {
	if !t.shoe.Burned() {
		t.shoe.Burn()
	}
	bank := t.shoe.Draw()
	player := t.shoe.Draw()
	doublet := bank == player

	rakeBps := t.mgr.RakeBps()
	var feesTotal int64
	results := make([]CoupSeatResult, 0, MaxSeats)

	for _, seat := range t.seats {
		if seat == nil {
			continue
		}
		seatBets := t.bets[seat.ID]
		if len(seatBets) == 0 {
			// No action this round; skipped for results and stats.
			continue
		}
		var delta, wagered int64
		for _, b := range seatBets {
			fee := b.Amount * rakeBps / 10000
			stake := b.Amount - fee
			feesTotal += fee
			wagered += stake

			switch {
			case doublet && b.Rank == bank:
				delta -= stake / 2
			case b.Rank == bank:
				if b.Copper {
					delta += stake
				} else {
					delta -= stake
				}
			case b.Rank == player:
				if b.Copper {
					delta -= stake
				} else {
					delta += stake
				}
			}
		}
		seat.Balance += delta
		t.balances[lowerAddr(seat.Addr)] = seat.Balance
		results = append(results, CoupSeatResult{SeatID: seat.ID, Addr: seat.Addr, Delta: delta})

		if err := recordCoup(t.mgr.stats, seat.Addr, wagered, delta); err != nil {
			tableLogger.Error().
				Str("tableID", t.id).
				Str("addr", seat.Addr).
				Msgf("Unable to record coup stats: %v", err)
		}
	}

	t.bets = make(map[string][]Bet)
	t.coups++
	t.mgr.accrueFees(feesTotal)
	util.Metrics.CoupDealt()

	tableLogger.Info().
		Str("tableID", t.id).
		Uint32("round", t.round).
		Bool("doublet", doublet).
		Msgf("Coup settled: bank=%s player=%s", cards.RankSymbol(bank), cards.RankSymbol(player))

	t.broadcastLocked(TableCoupMsg{
		Type:       MsgTableCoup,
		BankRank:   cards.RankSymbol(bank),
		PlayerRank: cards.RankSymbol(player),
		Doublet:    doublet,
		Results:    results,
		Table:      t.snapshotLocked(),
	})
	t.broadcastUpdateLocked()
}
