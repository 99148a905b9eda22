package game

// Outbound frame types. Every frame carries a "type" discriminator and
// is delivered as a single JSON object.

const (
	MsgHello        = "hello"
	MsgYou          = "you"
	MsgTableUpdate  = "table:update"
	MsgTableStage   = "table:stage"
	MsgTableStarted = "table:started"
	MsgTableCoup    = "table:coup"
	MsgChat         = "chat"
	MsgError        = "error"
	MsgEject        = "eject"
	MsgRTState      = "rt:state"
	MsgStats        = "stats"
)

// SeatSnapshot is the public view of an occupied seat.
type SeatSnapshot struct {
	ID      string `json:"id"`
	Addr    string `json:"addr"`
	Ready   bool   `json:"ready"`
	Balance int64  `json:"balance"`
	Pending int64  `json:"pending"`
	Avatar  string `json:"avatar,omitempty"`
}

// TableSnapshot is the public view of a table, broadcast on every
// mutation. Empty slots are null. Timestamps are epoch milliseconds.
type TableSnapshot struct {
	ID        string          `json:"id"`
	CreatedAt int64           `json:"createdAt"`
	Started   bool            `json:"started"`
	OwnerID   string          `json:"ownerId"`
	Stage     Stage           `json:"stage"`
	Deadline  int64           `json:"deadline"`
	Round     uint32          `json:"round"`
	LockAt    int64           `json:"lockAt"`
	Seats     []*SeatSnapshot `json:"seats"`
}

// BetDetail is one pending wager attributed to an address, included in
// the per-rank transparency listing.
type BetDetail struct {
	Addr   string `json:"addr"`
	Amount int64  `json:"amount"`
	Copper bool   `json:"copper"`
}

type HelloMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type YouMsg struct {
	Type         string `json:"type"`
	AllowedRound uint32 `json:"allowedRound"`
}

type TableUpdateMsg struct {
	Type       string                 `json:"type"`
	Table      *TableSnapshot         `json:"table"`
	Bets       map[string]int64       `json:"bets,omitempty"`
	BetsDetail map[string][]BetDetail `json:"betsDetail,omitempty"`
}

type TableStageMsg struct {
	Type     string         `json:"type"`
	Stage    Stage          `json:"stage"`
	Deadline int64          `json:"deadline"`
	Table    *TableSnapshot `json:"table"`
}

type TableStartedMsg struct {
	Type  string         `json:"type"`
	Table *TableSnapshot `json:"table"`
}

// CoupSeatResult is one seat's settled outcome for a coup.
type CoupSeatResult struct {
	SeatID string `json:"seatId"`
	Addr   string `json:"addr"`
	Delta  int64  `json:"delta"`
}

type TableCoupMsg struct {
	Type       string           `json:"type"`
	BankRank   string           `json:"bankRank"`
	PlayerRank string           `json:"playerRank"`
	Doublet    bool             `json:"doublet"`
	Results    []CoupSeatResult `json:"results"`
	Table      *TableSnapshot   `json:"table"`
}

type ChatMsg struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EjectMsg struct {
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	Forfeit int64  `json:"forfeit"`
}

// RTStateMsg reports the process-wide controls to clients.
type RTStateMsg struct {
	Type        string `json:"type"`
	Paused      bool   `json:"paused"`
	RakeBps     int64  `json:"rakeBps"`
	FeesAccrued int64  `json:"feesAccrued"`
}

type StatsMsg struct {
	Type      string `json:"type"`
	Addr      string `json:"addr"`
	Rounds    uint64 `json:"rounds"`
	Wagered   int64  `json:"wagered"`
	Won       int64  `json:"won"`
	Lost      int64  `json:"lost"`
	LastDelta int64  `json:"lastDelta"`
}

func NewErrorMsg(message string) ErrorMsg {
	return ErrorMsg{Type: MsgError, Message: message}
}
