package multiplayer

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
)

// GatewayConfig holds input-hardening switches.
type GatewayConfig struct {
	ClampPaddleInput  bool // Clamp playerMove Y to the arena interior
	EndAbandonedRooms bool // End a room once its last member disconnects
}

// DefaultGatewayConfig clamps input and keeps abandoned rooms running.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		ClampPaddleInput: true,
	}
}

// Gateway connects transports to rooms. It owns the set of connected
// sessions, the matchmaker and the per-room broadcast channels.
type Gateway struct {
	config   GatewayConfig
	sessions *SessionRegistry
	rooms    *Manager
	match    *Matchmaker
	logger   *log.Logger
	mirrors  []Broadcaster

	mu       sync.RWMutex
	channels map[RoomID]map[SessionID]struct{}
	joined   map[SessionID]map[RoomID]struct{}
}

// NewGateway creates a gateway and installs it as the broadcaster of rooms.
// Mirrors receive every snapshot after channel members do.
func NewGateway(cfg GatewayConfig, rooms *Manager, logger *log.Logger, mirrors ...Broadcaster) *Gateway {
	g := &Gateway{
		config:   cfg,
		sessions: NewSessionRegistry(),
		rooms:    rooms,
		logger:   logger,
		mirrors:  mirrors,
		channels: make(map[RoomID]map[SessionID]struct{}),
		joined:   make(map[SessionID]map[RoomID]struct{}),
	}
	g.match = NewMatchmaker(rooms, g, logger)
	rooms.SetBroadcaster(g)
	return g
}

// Rooms returns the room manager.
func (g *Gateway) Rooms() *Manager {
	return g.rooms
}

// Matchmaker returns the matchmaker.
func (g *Gateway) Matchmaker() *Matchmaker {
	return g.match
}

// Sessions returns the registry of connected sessions.
func (g *Gateway) Sessions() *SessionRegistry {
	return g.sessions
}

// Connect registers a connection and tells it its identity.
func (g *Gateway) Connect(s SessionHandle) {
	g.sessions.Register(s)
	s.Send(ConnectedEvent{PlayerID: s.ID()})
	g.logger.Info("session connected", "session", s.ID(), "sessions", g.sessions.Count())
}

// Disconnect forgets a connection: it stops waiting and leaves every room
// channel. Rooms keep running unless EndAbandonedRooms is set and the
// channel became empty.
func (g *Gateway) Disconnect(id SessionID) {
	if !g.sessions.Unregister(id) {
		return
	}
	g.match.Cancel(id)

	var abandoned []RoomID
	g.mu.Lock()
	for roomID := range g.joined[id] {
		members := g.channels[roomID]
		delete(members, id)
		if len(members) == 0 {
			delete(g.channels, roomID)
			abandoned = append(abandoned, roomID)
		}
	}
	delete(g.joined, id)
	g.mu.Unlock()

	g.logger.Info("session disconnected", "session", id, "sessions", g.sessions.Count())

	if !g.config.EndAbandonedRooms {
		return
	}
	for _, roomID := range abandoned {
		g.rooms.End(roomID)
	}
}

// Handle dispatches an inbound message from a connection.
func (g *Gateway) Handle(id SessionID, msg GatewayMessage) error {
	s, ok := g.sessions.Get(id)
	if !ok {
		return fmt.Errorf("handle message from %s: %w", id, ErrUnknownSession)
	}

	switch m := msg.(type) {
	case RequestMatchMsg:
		_, err := g.match.RequestMatch(s)
		return err
	case JoinRoomMsg:
		return g.JoinRoom(m.RoomID, id, m.PlayerID)
	case PlayerMoveMsg:
		return g.PlayerMove(m.RoomID, id, m.MovedY)
	default:
		return fmt.Errorf("handle %T: %w", msg, ErrUnknownEvent)
	}
}

// JoinRoom seats playerID in the room and subscribes conn to its channel.
// Occupied slots are never overwritten; a third player only receives state.
func (g *Gateway) JoinRoom(roomID RoomID, conn SessionID, playerID string) error {
	room := g.rooms.Get(roomID)
	if room == nil {
		g.logger.Debug("join for unknown room", "room", roomID, "session", conn)
		return fmt.Errorf("join %s: %w", roomID, ErrRoomNotFound)
	}

	side := room.Join(playerID)
	g.JoinChannel(roomID, conn)
	g.logger.Info("player joined", "room", roomID, "player", playerID, "side", side)
	return nil
}

// PlayerMove moves the paddle owned by conn. Unknown rooms, connections that
// own no paddle and non-finite positions are ignored.
func (g *Gateway) PlayerMove(roomID RoomID, conn SessionID, y float64) error {
	room := g.rooms.Get(roomID)
	if room == nil {
		g.logger.Debug("move for unknown room", "room", roomID, "session", conn)
		return fmt.Errorf("move in %s: %w", roomID, ErrRoomNotFound)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		g.logger.Debug("non-finite paddle position", "room", roomID, "session", conn)
		return nil
	}
	if g.config.ClampPaddleInput {
		y = pong.ClampPaddleY(y)
	}
	if room.MovePaddle(string(conn), y) == pong.SideNone {
		g.logger.Debug("move from non-player", "room", roomID, "session", conn)
	}
	return nil
}

// Broadcast sends a snapshot to every member of the room channel, then to
// the mirrors. It never holds a room lock.
func (g *Gateway) Broadcast(roomID RoomID, snap pong.Snapshot) {
	g.mu.RLock()
	members := make([]SessionID, 0, len(g.channels[roomID]))
	for id := range g.channels[roomID] {
		members = append(members, id)
	}
	g.mu.RUnlock()

	evt := GameStateEvent{RoomID: roomID, Snapshot: snap}
	for _, id := range members {
		if s, ok := g.sessions.Get(id); ok {
			s.Send(evt)
		}
	}
	for _, m := range g.mirrors {
		m.Broadcast(roomID, snap)
	}
}

// JoinChannel subscribes a connection to a room's broadcasts. A connection
// that has already disconnected is not subscribed.
func (g *Gateway) JoinChannel(roomID RoomID, id SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Disconnect unregisters before it takes g.mu, so checking under the
	// lock leaves no window for a stale entry.
	if _, ok := g.sessions.Get(id); !ok {
		g.logger.Debug("channel join for gone session", "room", roomID, "session", id)
		return
	}

	members, ok := g.channels[roomID]
	if !ok {
		members = make(map[SessionID]struct{})
		g.channels[roomID] = members
	}
	members[id] = struct{}{}

	rooms, ok := g.joined[id]
	if !ok {
		rooms = make(map[RoomID]struct{})
		g.joined[id] = rooms
	}
	rooms[roomID] = struct{}{}
}

// Members returns the connections subscribed to a room, sorted.
func (g *Gateway) Members(roomID RoomID) []SessionID {
	g.mu.RLock()
	ids := make([]SessionID, 0, len(g.channels[roomID]))
	for id := range g.channels[roomID] {
		ids = append(ids, id)
	}
	g.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shutdown ends every room.
func (g *Gateway) Shutdown() {
	g.rooms.Shutdown()
}
