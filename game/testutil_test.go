package game

import (
	"sync"
	"time"
)

// fakeSub is an in-memory Subscriber that records every frame it is
// sent.
type fakeSub struct {
	id     string
	mu     sync.Mutex
	frames []interface{}
}

func newFakeSub(id string) *fakeSub {
	return &fakeSub{id: id}
}

func (f *fakeSub) ID() string {
	return f.id
}

func (f *fakeSub) Send(frame interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
}

func (f *fakeSub) allFrames() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	frames := make([]interface{}, len(f.frames))
	copy(frames, f.frames)
	return frames
}

func (f *fakeSub) lastCoup() (TableCoupMsg, bool) {
	for _, frame := range f.allFrames() {
		if coup, ok := frame.(TableCoupMsg); ok {
			return coup, true
		}
	}
	return TableCoupMsg{}, false
}

func (f *fakeSub) lastEject() (EjectMsg, bool) {
	for _, frame := range f.allFrames() {
		if eject, ok := frame.(EjectMsg); ok {
			return eject, true
		}
	}
	return EjectMsg{}, false
}

// newTestManager uses stage windows long enough that the wall-clock
// timer never fires during a test; deadline handling is exercised by
// invoking the transition directly.
func newTestManager() *Manager {
	timings := Timings{
		StartStageSeconds:   300,
		BettingStageSeconds: 300,
		LockBufferSeconds:   5,
	}
	return NewManager(timings, NewMemoryStatsTracker(), NewNoopEventPublisher(), nil, 0)
}

// seatUp joins the subscriber to the table and occupies the slot.
func seatUp(t *Table, sub *fakeSub, seatIndex int, addr string) error {
	allowedRound := t.Join(sub)
	return t.Occupy(sub, seatIndex, addr, allowedRound)
}

// forceBettingStage puts the table directly into a betting window
// without arming the wall-clock machinery beyond the long test window.
func forceBettingStage(t *Table, round uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = true
	t.stage = StageBetting
	t.round = round
	t.deadline = time.Now().Add(5 * time.Minute)
	t.lockAt = t.deadline.Add(-5 * time.Second)
}
