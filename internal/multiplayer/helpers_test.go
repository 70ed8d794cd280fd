package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// manualScheduler runs tasks only when Fire is called.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	fn        func()
	interval  time.Duration
	cancelled bool
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{fn: fn, interval: interval}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Fire runs one tick of every live task.
func (s *manualScheduler) Fire() {
	s.mu.Lock()
	var live []func()
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range live {
		fn()
	}
}

// Active returns the number of tasks not cancelled.
func (s *manualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// fakeSession records every event it is sent.
type fakeSession struct {
	id   SessionID
	done chan struct{}

	mu     sync.Mutex
	events []SessionEvent
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: SessionID(id), done: make(chan struct{})}
}

func (s *fakeSession) ID() SessionID         { return s.id }
func (s *fakeSession) Done() <-chan struct{} { return s.done }

func (s *fakeSession) Send(evt SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *fakeSession) Events() []SessionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SessionEvent(nil), s.events...)
}

func (s *fakeSession) Last() SessionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

func (s *fakeSession) States() []GameStateEvent {
	var out []GameStateEvent
	for _, evt := range s.Events() {
		if gs, ok := evt.(GameStateEvent); ok {
			out = append(out, gs)
		}
	}
	return out
}

// channelRecorder is a ChannelJoiner that records joins.
type channelRecorder struct {
	mu    sync.Mutex
	joins map[RoomID][]SessionID
}

func (c *channelRecorder) JoinChannel(roomID RoomID, id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.joins == nil {
		c.joins = make(map[RoomID][]SessionID)
	}
	c.joins[roomID] = append(c.joins[roomID], id)
}

func (c *channelRecorder) Joined(roomID RoomID) []SessionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SessionID(nil), c.joins[roomID]...)
}
