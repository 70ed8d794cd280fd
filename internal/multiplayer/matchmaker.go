package multiplayer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ChannelJoiner subscribes a connection to a room's broadcast channel.
type ChannelJoiner interface {
	JoinChannel(roomID RoomID, sessionID SessionID)
}

// Matchmaker pairs connections that asked for a match.
// Waiting connections form a stack: a new request is paired with the most
// recent waiter.
type Matchmaker struct {
	rooms    *Manager
	channels ChannelJoiner
	logger   *log.Logger
	now      func() time.Time

	mu      sync.Mutex
	waiting []SessionHandle
}

// NewMatchmaker creates a matchmaker that opens rooms on rooms.
func NewMatchmaker(rooms *Manager, channels ChannelJoiner, logger *log.Logger) *Matchmaker {
	return &Matchmaker{
		rooms:    rooms,
		channels: channels,
		logger:   logger,
		now:      time.Now,
	}
}

// RequestMatch pairs s with the most recent waiter, or makes s wait.
// On a match both connections join the new room's channel and receive
// MatchFoundEvent; the returned id is empty when s is waiting.
func (mm *Matchmaker) RequestMatch(s SessionHandle) (RoomID, error) {
	mm.mu.Lock()
	if mm.indexLocked(s.ID()) >= 0 {
		mm.mu.Unlock()
		s.Send(WaitingForOpponentEvent{})
		return "", nil
	}
	if len(mm.waiting) == 0 {
		mm.waiting = append(mm.waiting, s)
		mm.mu.Unlock()
		mm.logger.Debug("waiting for opponent", "session", s.ID())
		s.Send(WaitingForOpponentEvent{})
		return "", nil
	}
	last := len(mm.waiting) - 1
	opponent := mm.waiting[last]
	mm.waiting[last] = nil
	mm.waiting = mm.waiting[:last]
	mm.mu.Unlock()

	room, err := mm.openRoom()
	if err != nil {
		mm.mu.Lock()
		mm.waiting = append(mm.waiting, opponent)
		mm.mu.Unlock()
		return "", err
	}

	id := room.ID()
	mm.channels.JoinChannel(id, opponent.ID())
	mm.channels.JoinChannel(id, s.ID())

	opponent.Send(MatchFoundEvent{RoomID: id})
	s.Send(MatchFoundEvent{RoomID: id})

	mm.logger.Info("match found", "room", id, "first", opponent.ID(), "second", s.ID())
	return id, nil
}

// openRoom creates a room named after the current time, adding a numeric
// suffix while the name is taken.
func (mm *Matchmaker) openRoom() (*Room, error) {
	base := fmt.Sprintf("game_%d", mm.now().UnixMilli())
	id := RoomID(base)
	for n := 1; ; n++ {
		room, err := mm.rooms.Create(id)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrRoomExists) {
			return nil, fmt.Errorf("open room: %w", err)
		}
		id = RoomID(fmt.Sprintf("%s_%d", base, n))
	}
}

// Cancel removes a connection from the waiting set. It reports whether the
// connection was waiting.
func (mm *Matchmaker) Cancel(id SessionID) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	i := mm.indexLocked(id)
	if i < 0 {
		return false
	}
	mm.waiting = append(mm.waiting[:i], mm.waiting[i+1:]...)
	return true
}

// Waiting returns the number of connections waiting for an opponent.
func (mm *Matchmaker) Waiting() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return len(mm.waiting)
}

func (mm *Matchmaker) indexLocked(id SessionID) int {
	for i, s := range mm.waiting {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
