package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavern.club/faro/cards"
)

// scriptShoe replaces the table's shoe with a deterministic sequence.
// The first rank is consumed by the burn card of a fresh shoe.
func scriptShoe(t *Table, ranks ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shoe = cards.NewShoeFromRanks(ranks)
}

func TestCoupWinLoseSignRule(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("signs")
	subA := newFakeSub("conn-a")
	subB := newFakeSub("conn-b")
	subC := newFakeSub("conn-c")
	require.NoError(t, seatUp(table, subA, 0, "alice"))
	require.NoError(t, seatUp(table, subB, 1, "bob"))
	require.NoError(t, seatUp(table, subC, 2, "carol"))
	forceBettingStage(table, 1)

	// bank = 7, player = K after the burn card.
	scriptShoe(table, 0, cards.RankIndex("7"), cards.RankIndex("K"))

	require.NoError(t, table.PlaceBet(subA, "7", 10, false)) // bank rank, loses
	require.NoError(t, table.PlaceBet(subB, "7", 10, true))  // copper on bank, wins
	require.NoError(t, table.PlaceBet(subC, "K", 10, false)) // player rank, wins

	require.NoError(t, table.Deal(subA))

	coup, ok := subA.lastCoup()
	require.True(t, ok)
	assert.Equal(t, "7", coup.BankRank)
	assert.Equal(t, "K", coup.PlayerRank)
	assert.False(t, coup.Doublet)

	deltas := make(map[string]int64)
	for _, r := range coup.Results {
		deltas[r.Addr] = r.Delta
	}
	assert.Equal(t, int64(-10), deltas["alice"])
	assert.Equal(t, int64(10), deltas["bob"])
	assert.Equal(t, int64(10), deltas["carol"])

	snapshot := table.Snapshot()
	assert.Equal(t, int64(90), snapshot.Seats[0].Balance)
	assert.Equal(t, int64(110), snapshot.Seats[1].Balance)
	assert.Equal(t, int64(110), snapshot.Seats[2].Balance)
}

func TestCoupBalanceConservation(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("conserve")
	subA := newFakeSub("conn-a")
	subB := newFakeSub("conn-b")
	require.NoError(t, seatUp(table, subA, 0, "alice"))
	require.NoError(t, seatUp(table, subB, 1, "bob"))
	forceBettingStage(table, 1)

	scriptShoe(table, 3, cards.RankIndex("2"), cards.RankIndex("9"))

	require.NoError(t, table.PlaceBet(subA, "2", 25, false)) // -25
	require.NoError(t, table.PlaceBet(subA, "9", 40, false)) // +40
	require.NoError(t, table.PlaceBet(subB, "2", 30, true))  // +30
	require.NoError(t, table.PlaceBet(subB, "5", 15, false)) // no match, push

	require.NoError(t, table.Deal(subA))

	coup, ok := subB.lastCoup()
	require.True(t, ok)

	var total int64
	deltas := make(map[string]int64)
	for _, r := range coup.Results {
		deltas[r.Addr] = r.Delta
		total += r.Delta
	}
	// Winning stakes (40 + 30) minus losing stakes (25); the unmatched
	// wager neither wins nor costs.
	assert.Equal(t, int64(15), deltas["alice"])
	assert.Equal(t, int64(30), deltas["bob"])
	assert.Equal(t, int64(45), total)
}

func TestCoupDoubletHalfLoss(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("doublet")
	subA := newFakeSub("conn-a")
	subB := newFakeSub("conn-b")
	require.NoError(t, seatUp(table, subA, 0, "alice"))
	require.NoError(t, seatUp(table, subB, 1, "bob"))
	forceBettingStage(table, 1)

	seven := cards.RankIndex("7")
	scriptShoe(table, 0, seven, seven)

	// Bet of 2N on the doublet rank loses exactly N, copper or not.
	require.NoError(t, table.PlaceBet(subA, "7", 50, false))
	require.NoError(t, table.PlaceBet(subB, "7", 51, true))
	// A wager on any other rank pushes on a doublet.
	require.NoError(t, table.PlaceBet(subB, "K", 20, false))

	require.NoError(t, table.Deal(subA))

	coup, ok := subA.lastCoup()
	require.True(t, ok)
	assert.True(t, coup.Doublet)

	deltas := make(map[string]int64)
	for _, r := range coup.Results {
		deltas[r.Addr] = r.Delta
	}
	assert.Equal(t, int64(-25), deltas["alice"])
	assert.Equal(t, int64(-25), deltas["bob"]) // floor(51/2)

	snapshot := table.Snapshot()
	assert.Equal(t, int64(75), snapshot.Seats[0].Balance)
	assert.Equal(t, int64(75), snapshot.Seats[1].Balance)
}

func TestCoupSkipsSeatsWithoutAction(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("skips")
	subA := newFakeSub("conn-a")
	subB := newFakeSub("conn-b")
	require.NoError(t, seatUp(table, subA, 0, "alice"))
	require.NoError(t, seatUp(table, subB, 1, "bob"))
	forceBettingStage(table, 1)

	scriptShoe(table, 0, cards.RankIndex("4"), cards.RankIndex("J"))
	require.NoError(t, table.PlaceBet(subA, "J", 10, false))
	require.NoError(t, table.Deal(subA))

	coup, ok := subA.lastCoup()
	require.True(t, ok)
	require.Len(t, coup.Results, 1)
	assert.Equal(t, "alice", coup.Results[0].Addr)

	// Only the acting seat accrues lifetime stats.
	aliceStats, err := mgr.Stats("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), aliceStats.Rounds)
	assert.Equal(t, int64(10), aliceStats.Wagered)
	assert.Equal(t, int64(10), aliceStats.Won)

	bobStats, err := mgr.Stats("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bobStats.Rounds)
}

func TestCoupClearsBetsAndRearmsBetting(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("rearm")
	sub := newFakeSub("conn-a")
	require.NoError(t, seatUp(table, sub, 0, "alice"))
	forceBettingStage(table, 1)

	scriptShoe(table, 0, cards.RankIndex("4"), cards.RankIndex("J"))
	require.NoError(t, table.PlaceBet(sub, "3", 10, false))
	require.NoError(t, table.Deal(sub))

	snapshot := table.Snapshot()
	assert.Equal(t, StageBetting, snapshot.Stage)
	assert.Equal(t, uint32(2), snapshot.Round)
	assert.Equal(t, int64(0), snapshot.Seats[0].Pending)
	// Unmatched wager pushed: no balance change.
	assert.Equal(t, InitialBalance, snapshot.Seats[0].Balance)
}

func TestCoupBurnsOncePerShoe(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("burn")
	sub := newFakeSub("conn-a")
	require.NoError(t, seatUp(table, sub, 0, "alice"))
	forceBettingStage(table, 1)

	// First coup consumes the burn card (9), then 4/J. The second coup
	// must not burn again: it draws 2/8 directly.
	scriptShoe(table, cards.RankIndex("9"), cards.RankIndex("4"), cards.RankIndex("J"),
		cards.RankIndex("2"), cards.RankIndex("8"))

	require.NoError(t, table.Deal(sub))
	require.NoError(t, table.Deal(sub))

	coups := make([]TableCoupMsg, 0, 2)
	for _, frame := range sub.allFrames() {
		if coup, ok := frame.(TableCoupMsg); ok {
			coups = append(coups, coup)
		}
	}
	require.Len(t, coups, 2)
	assert.Equal(t, "4", coups[0].BankRank)
	assert.Equal(t, "J", coups[0].PlayerRank)
	assert.Equal(t, "2", coups[1].BankRank)
	assert.Equal(t, "8", coups[1].PlayerRank)
}

func TestEndToEndScenario(t *testing.T) {
	mgr := newTestManager()
	table := mgr.GetTable("lobby")
	subA := newFakeSub("conn-a")
	subB := newFakeSub("conn-b")

	require.NoError(t, seatUp(table, subA, 0, "alice"))
	require.NoError(t, seatUp(table, subB, 1, "bob"))

	// Both ready up: the table moves from the pre-game gate into
	// betting round 1.
	require.NoError(t, table.SetReady(subA, true))
	require.NoError(t, table.SetReady(subB, true))
	snapshot := table.Snapshot()
	require.True(t, snapshot.Started)
	require.Equal(t, StageBetting, snapshot.Stage)
	require.Equal(t, uint32(1), snapshot.Round)

	// Deterministic draw: burn, then bank=7, player=K.
	scriptShoe(table, 0, cards.RankIndex("7"), cards.RankIndex("K"))

	require.NoError(t, table.PlaceBet(subA, "7", 10, false))
	require.NoError(t, table.PlaceBet(subB, "K", 10, false))

	require.NoError(t, table.Deal(subA))

	coup, ok := subB.lastCoup()
	require.True(t, ok)
	assert.False(t, coup.Doublet)
	assert.Equal(t, "7", coup.BankRank)
	assert.Equal(t, "K", coup.PlayerRank)

	deltas := make(map[string]int64)
	for _, r := range coup.Results {
		deltas[r.Addr] = r.Delta
	}
	assert.Equal(t, int64(-10), deltas["alice"])
	assert.Equal(t, int64(10), deltas["bob"])

	snapshot = table.Snapshot()
	assert.Equal(t, int64(90), snapshot.Seats[0].Balance)
	assert.Equal(t, int64(110), snapshot.Seats[1].Balance)

	// A fresh betting window began automatically.
	assert.Equal(t, StageBetting, snapshot.Stage)
	assert.Equal(t, uint32(2), snapshot.Round)
}
