package multiplayer

import "github.com/vovakirdan/pong-arena/internal/games/pong"

// SessionEvent is an event delivered from the server to one connection.
type SessionEvent interface {
	sessionEvent()
}

// ConnectedEvent tells a connection its own identity right after it connects.
// Clients use it as their player id when joining a room.
type ConnectedEvent struct {
	PlayerID SessionID
}

func (ConnectedEvent) sessionEvent() {}

// WaitingForOpponentEvent is sent when a match request found nobody waiting.
type WaitingForOpponentEvent struct{}

func (WaitingForOpponentEvent) sessionEvent() {}

// MatchFoundEvent is sent to both connections of a freshly created room.
type MatchFoundEvent struct {
	RoomID RoomID
}

func (MatchFoundEvent) sessionEvent() {}

// GameStateEvent carries one tick's snapshot of a room.
type GameStateEvent struct {
	RoomID   RoomID
	Snapshot pong.Snapshot
}

func (GameStateEvent) sessionEvent() {}

// GatewayMessage is an inbound message from a connection.
type GatewayMessage interface {
	gatewayMessage()
}

// RequestMatchMsg asks to be paired with another waiting connection.
type RequestMatchMsg struct{}

func (RequestMatchMsg) gatewayMessage() {}

// JoinRoomMsg claims a paddle in a room for PlayerID.
type JoinRoomMsg struct {
	RoomID   RoomID
	PlayerID string
}

func (JoinRoomMsg) gatewayMessage() {}

// PlayerMoveMsg moves the sender's paddle to MovedY.
type PlayerMoveMsg struct {
	RoomID RoomID
	MovedY float64
}

func (PlayerMoveMsg) gatewayMessage() {}
