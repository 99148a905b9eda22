package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"tavern.club/faro/game"
	"tavern.club/faro/util"
)

var clientLogger = log.With().Str("logger_name", "ws::client").Logger()

const (
	maxAddrLen     = 80
	sendBufferSize = 64
	writeTimeout   = 5 * time.Second
)

// Client is one live websocket connection: its self-declared address,
// the table it has joined and the round gate assigned when it joined.
// Client implements game.Subscriber.
type Client struct {
	id      string
	conn    *websocket.Conn
	manager *game.Manager

	// Only touched from the read loop.
	addr         string
	table        *game.Table
	allowedRound uint32

	msgLimiter  *rate.Limiter
	chatLimiter *rate.Limiter

	sendMu sync.Mutex
	sendCh chan []byte
	closed bool
}

func newClient(conn *websocket.Conn, manager *game.Manager) *Client {
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		manager: manager,
		// Coarse flood guard on all frames plus a tighter one on chat.
		msgLimiter:  rate.NewLimiter(rate.Limit(20), 40),
		chatLimiter: rate.NewLimiter(rate.Limit(1), 5),
		sendCh:      make(chan []byte, sendBufferSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues a frame for delivery. It never blocks: when the buffer
// is full the frame is dropped so a slow socket cannot stall a table.
func (c *Client) Send(frame interface{}) {
	data, err := jsoniter.Marshal(frame)
	if err != nil {
		clientLogger.Error().Str("clientID", c.id).Msgf("Unable to marshal outbound frame: %v", err)
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.sendCh <- data:
	default:
		clientLogger.Warn().Str("clientID", c.id).Msg("Send buffer full, dropping frame")
	}
}

func (c *Client) run(ctx context.Context) {
	util.Metrics.ClientConnected()
	defer c.cleanup()

	go c.writeLoop(ctx)

	c.Send(game.HelloMsg{Type: game.MsgHello, ID: c.id})

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			clientLogger.Debug().Str("clientID", c.id).Msgf("Connection closed: %v", err)
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	for data := range c.sendCh {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := c.conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			clientLogger.Debug().Str("clientID", c.id).Msgf("Write failed: %v", err)
			return
		}
	}
}

func (c *Client) cleanup() {
	c.sendMu.Lock()
	if !c.closed {
		c.closed = true
		close(c.sendCh)
	}
	c.sendMu.Unlock()

	c.manager.DropSubscriber(c)
	c.conn.Close(websocket.StatusNormalClosure, "")
	util.Metrics.ClientDisconnected()
}

func (c *Client) sendError(message string) {
	c.Send(game.NewErrorMsg(message))
}

// handleMessage routes one inbound frame. A frame that fails to parse
// is simply ignored; a recognized frame that fails validation answers
// with an error frame and changes no state.
func (c *Client) handleMessage(data []byte) {
	if !c.msgLimiter.Allow() {
		return
	}

	var base inboundBase
	if err := jsoniter.Unmarshal(data, &base); err != nil {
		return
	}

	switch base.Type {
	case msgIdentify:
		var m identifyMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		addr := m.Addr
		if len(addr) > maxAddrLen {
			addr = addr[:maxAddrLen]
		}
		c.addr = addr
		c.Send(c.manager.RTState())

	case msgJoinTable:
		var m joinTableMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table != nil {
			c.table.DropSubscriber(c)
		}
		c.table = c.manager.GetTable(m.TableID)
		c.allowedRound = c.table.Join(c)
		c.Send(game.YouMsg{Type: game.MsgYou, AllowedRound: c.allowedRound})

	case msgSeat:
		var m seatMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if m.Index == -1 {
			c.table.Vacate(c)
			return
		}
		if err := c.table.Occupy(c, m.Index, c.addr, c.allowedRound); err != nil {
			c.sendError(err.Error())
		}

	case msgReady:
		var m readyMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if err := c.table.SetReady(c, m.Ready); err != nil {
			c.sendError(err.Error())
		}

	case msgStart:
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if err := c.table.Start(c); err != nil {
			c.sendError(err.Error())
		}

	case msgPlaceBet:
		var m placeBetMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if err := c.table.PlaceBet(c, m.Rank, m.Amount, m.Copper); err != nil {
			c.sendError(err.Error())
		}

	case msgDeal:
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if err := c.table.Deal(c); err != nil {
			c.sendError(err.Error())
		}

	case msgChat:
		var m chatInMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if !c.chatLimiter.Allow() {
			c.sendError("Too many chat messages")
			return
		}
		from := c.addr
		if from == "" {
			from = c.id
		}
		c.table.Chat(from, m.Text)

	case msgSetAvatar:
		var m setAvatarMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if c.table == nil {
			c.sendError("Join a table first")
			return
		}
		if err := c.table.SetAvatar(c, m.Data, m.URL); err != nil {
			c.sendError(err.Error())
		}

	case msgStatRead:
		var m statReadMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		stats, err := c.manager.Stats(m.Addr)
		if err != nil {
			c.sendError("Unable to read stats")
			return
		}
		c.Send(game.StatsMsg{
			Type:      game.MsgStats,
			Addr:      m.Addr,
			Rounds:    stats.Rounds,
			Wagered:   stats.Wagered,
			Won:       stats.Won,
			Lost:      stats.Lost,
			LastDelta: stats.LastDelta,
		})

	case msgAdminPause:
		var m adminPauseMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if !c.manager.IsAdmin(c.addr) {
			c.sendError("not admin")
			return
		}
		state := c.manager.SetPaused(m.Paused)
		c.manager.BroadcastAll(state)
		c.Send(state)

	case msgAdminRake:
		var m adminSetRakeMsg
		if err := jsoniter.Unmarshal(data, &m); err != nil {
			return
		}
		if !c.manager.IsAdmin(c.addr) {
			c.sendError("not admin")
			return
		}
		state := c.manager.SetRakeBps(m.Bps)
		c.manager.BroadcastAll(state)
		c.Send(state)

	case msgAdminFees:
		if !c.manager.IsAdmin(c.addr) {
			c.sendError("not admin")
			return
		}
		state := c.manager.ResetFees()
		c.manager.BroadcastAll(state)
		c.Send(state)

	default:
		c.sendError("Unknown message type")
	}
}
