package timer

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var stageTimerLogger = log.With().Str("logger_name", "timer::stage_timer").Logger()

// StageMsg identifies the stage window a timer fire belongs to. The
// receiving table compares Stage and Round against its current state
// and discards stale fires.
type StageMsg struct {
	TableID  string
	Stage    string
	Round    uint32
	ExpireAt time.Time
}

// StageTimer drives the deadline of a table's current stage. A table
// owns exactly one StageTimer; resetting it replaces any pending
// deadline, so cancel-before-reschedule is implicit.
type StageTimer struct {
	tableID string

	chReset   chan StageMsg
	chCancel  chan bool
	chEndLoop chan bool

	callback        func(StageMsg)
	currentStageMsg StageMsg

	secondsTillDeadline uint32
	lastResetAt         time.Time

	crashHandler func()
}

func NewStageTimer(tableID string, callback func(StageMsg), crashHandler func()) *StageTimer {
	st := StageTimer{
		tableID:      tableID,
		chReset:      make(chan StageMsg),
		chCancel:     make(chan bool),
		chEndLoop:    make(chan bool, 10),
		callback:     callback,
		crashHandler: crashHandler,
	}
	return &st
}

func (s *StageTimer) Run() {
	go s.loop()
}

func (s *StageTimer) Destroy() {
	s.chEndLoop <- true
}

func (s *StageTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			// Panic occurred.
			debug.PrintStack()
			stageTimerLogger.Error().
				Str("table", s.tableID).
				Msgf("Stage timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))

			if s.crashHandler != nil {
				s.crashHandler()
			}
		} else {
			stageTimerLogger.Info().Str("table", s.tableID).Msg("Stage timer loop returning")
		}
	}()

	var expirationTime time.Time
	paused := true
	for {
		select {
		case <-s.chEndLoop:
			return
		case <-s.chCancel:
			paused = true
		case msg := <-s.chReset:
			// Start the new deadline.
			s.currentStageMsg = msg
			expirationTime = msg.ExpireAt
			paused = false
		default:
			if !paused {
				remainingSec := expirationTime.Sub(time.Now()).Seconds()
				if remainingSec < 0 {
					remainingSec = 0
				}
				s.secondsTillDeadline = uint32(remainingSec)

				if remainingSec <= 0 {
					// The stage deadline passed.
					s.callback(s.currentStageMsg)
					expirationTime = time.Time{}
					paused = true
				}
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Cancel disarms the pending deadline without stopping the loop.
func (s *StageTimer) Cancel() {
	s.chCancel <- true
}

// Reset arms the timer for a new stage window, replacing any pending one.
func (s *StageTimer) Reset(m StageMsg) error {
	var errMsgs []string
	if m.Stage == "" {
		errMsgs = append(errMsgs, "invalid stage")
	}
	if time.Time.IsZero(m.ExpireAt) {
		errMsgs = append(errMsgs, "invalid expireAt")
	}
	if len(errMsgs) > 0 {
		return fmt.Errorf(strings.Join(errMsgs, "; "))
	}
	s.lastResetAt = time.Now()
	s.chReset <- m
	return nil
}

func (s *StageTimer) GetElapsedTime() time.Duration {
	return time.Now().Sub(s.lastResetAt)
}

func (s *StageTimer) GetRemainingSec() uint32 {
	return s.secondsTillDeadline
}

func (s *StageTimer) GetCurrentStageMsg() StageMsg {
	return s.currentStageMsg
}
