package game

import "strings"

// Stage is the current phase of a table's repeating cycle.
type Stage string

const (
	// StageNone means the table has no active cycle.
	StageNone Stage = ""
	// StageStart is the pre-game readiness gate before the first deal.
	StageStart Stage = "start"
	// StageBetting is the recurring wagering window.
	StageBetting Stage = "betting"
)

const (
	// MaxSeats is the number of slots at a table.
	MaxSeats = 6
	// InitialBalance is credited to an address on first occupancy.
	InitialBalance int64 = 100
	// MinBet and MaxBet bound a single wager, in ledger units.
	MinBet int64 = 1
	MaxBet int64 = 1000
	// MaxChatLen caps chat text.
	MaxChatLen = 240
	// MaxAvatarDataLen caps an inline data-URI avatar (~200KB).
	MaxAvatarDataLen = 200 * 1024
	// MaxAvatarURLLen caps an avatar URL.
	MaxAvatarURLLen = 512
)

// Bet is a single pending wager against a rank. Copper flips the bet
// to be against the rank rather than for it.
type Bet struct {
	Rank   int   `json:"rank"`
	Amount int64 `json:"amount"`
	Copper bool  `json:"copper"`
}

// Seat is an occupied slot at a table. The subscriber reference is
// exclusively owned by one live connection at a time.
type Seat struct {
	ID      string
	Addr    string
	Ready   bool
	Balance int64
	Avatar  string

	sub Subscriber
}

// Subscriber is a live connection joined to a table. Send must never
// block; slow or dead subscribers are the transport's problem.
type Subscriber interface {
	ID() string
	Send(frame interface{})
}

func lowerAddr(addr string) string {
	return strings.ToLower(addr)
}
