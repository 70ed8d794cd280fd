package multiplayer

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
)

// Broadcaster receives every room's snapshot once per tick.
type Broadcaster interface {
	Broadcast(roomID RoomID, snap pong.Snapshot)
}

// ManagerConfig holds configuration for the room manager.
type ManagerConfig struct {
	TickInterval time.Duration // Time between room ticks
	Seed         int64         // Base RNG seed; 0 means time-based
}

// DefaultManagerConfig returns the fixed 60 Hz setup with a time-based seed.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		TickInterval: pong.TickInterval,
	}
}

// Manager owns every live room and its recurring tick task.
type Manager struct {
	config ManagerConfig
	sched  Scheduler
	logger *log.Logger
	seed   int64

	mu      sync.RWMutex
	rooms   map[RoomID]*Room
	created int64
	out     Broadcaster
}

// NewManager creates a room manager. Rooms tick on sched and hand their
// snapshots to the broadcaster installed with SetBroadcaster.
func NewManager(cfg ManagerConfig, sched Scheduler, logger *log.Logger) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = pong.TickInterval
	}
	if sched == nil {
		sched = TickerScheduler{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		config: cfg,
		sched:  sched,
		logger: logger,
		seed:   seed,
		rooms:  make(map[RoomID]*Room),
	}
}

// SetBroadcaster installs the snapshot sink for all rooms.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out = b
}

// Create builds a room with a freshly served ball and starts ticking it.
func (m *Manager) Create(id RoomID) (*Room, error) {
	m.mu.Lock()
	if _, exists := m.rooms[id]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("create %s: %w", id, ErrRoomExists)
	}
	n := m.created
	m.created++
	room := newRoom(id, rand.New(rand.NewSource(m.seed+n))) //nolint:gosec // gameplay randomness
	m.rooms[id] = room
	m.mu.Unlock()

	room.setCancel(m.sched.Every(m.config.TickInterval, func() {
		m.tick(room)
	}))

	m.logger.Info("room created", "room", id, "rooms", m.Count())
	return room, nil
}

func (m *Manager) tick(room *Room) {
	snap, res, ok := room.tick()
	if !ok {
		return
	}
	if res.Reset {
		m.logger.Debug("ball reset", "room", room.ID(), "tick", res.Tick)
	}

	m.mu.RLock()
	out := m.out
	m.mu.RUnlock()
	if out != nil {
		out.Broadcast(room.ID(), snap)
	}
}

// Get returns a live room, or nil.
func (m *Manager) Get(id RoomID) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[id]
}

// End stops a room and removes it. Ending an unknown or already ended room
// is a no-op; the return value reports whether a room was ended.
func (m *Manager) End(id RoomID) bool {
	m.mu.Lock()
	room, exists := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()

	if !exists || !room.end() {
		return false
	}
	m.logger.Info("room ended", "room", id)
	return true
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// IDs returns the ids of all live rooms, sorted.
func (m *Manager) IDs() []RoomID {
	m.mu.RLock()
	ids := make([]RoomID, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shutdown ends every room.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[RoomID]*Room)
	m.mu.Unlock()

	for _, room := range rooms {
		room.end()
	}
	if len(rooms) > 0 {
		m.logger.Info("rooms shut down", "count", len(rooms))
	}
}
