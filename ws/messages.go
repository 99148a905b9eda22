package ws

// Inbound message types.
const (
	msgIdentify   = "identify"
	msgJoinTable  = "join_table"
	msgSeat       = "seat"
	msgReady      = "ready"
	msgStart      = "start"
	msgPlaceBet   = "place_bet"
	msgDeal       = "deal"
	msgChat       = "chat"
	msgSetAvatar  = "set_avatar"
	msgStatRead   = "stat_read"
	msgAdminPause = "admin:pause"
	msgAdminRake  = "admin:set_rake"
	msgAdminFees  = "admin:reset_fees"
)

// Every inbound frame carries a "type" discriminator; the remaining
// fields are decoded per type after dispatch.
type inboundBase struct {
	Type string `json:"type"`
}

type identifyMsg struct {
	Addr string `json:"addr"`
}

type joinTableMsg struct {
	TableID string `json:"tableId"`
}

type seatMsg struct {
	// Index selects a slot 0..5; -1 leaves the current seat.
	Index int `json:"index"`
}

type readyMsg struct {
	Ready bool `json:"ready"`
}

type placeBetMsg struct {
	Rank   string `json:"rank"`
	Amount int64  `json:"amount"`
	Copper bool   `json:"copper"`
}

type chatInMsg struct {
	Text string `json:"text"`
}

type setAvatarMsg struct {
	Data string `json:"data"`
	URL  string `json:"url"`
}

type statReadMsg struct {
	Addr string `json:"addr"`
}

type adminPauseMsg struct {
	Paused bool `json:"paused"`
}

type adminSetRakeMsg struct {
	Bps int64 `json:"bps"`
}
