// Package multiplayer runs arena rooms: it pairs waiting connections,
// ticks every room on its own schedule and routes input and snapshots
// between connections and rooms.
//
// Nothing here depends on a transport. WebSocket, SSH and test clients all
// plug in through SessionHandle.
package multiplayer

import "errors"

// SessionID uniquely identifies a connection (socket id).
type SessionID string

// RoomID uniquely identifies a room, e.g. "game_1718000000000".
type RoomID string

// RoomState is the lifecycle stage of a room.
type RoomState int

const (
	// RoomCreated rooms have their bodies built but have not ticked yet.
	RoomCreated RoomState = iota
	// RoomActive rooms tick at the fixed rate.
	RoomActive
	// RoomEnded rooms are cancelled and unreachable through the manager.
	RoomEnded
)

// String returns a human-readable name for the state.
func (s RoomState) String() string {
	switch s {
	case RoomCreated:
		return "created"
	case RoomActive:
		return "active"
	case RoomEnded:
		return "ended"
	default:
		return "unknown"
	}
}

var (
	// ErrRoomExists is returned when creating a room whose id is live.
	ErrRoomExists = errors.New("room already exists")
	// ErrRoomNotFound is returned for operations on an unknown or ended room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUnknownEvent is returned for inbound messages the gateway cannot handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownSession is returned when a message arrives for an unregistered connection.
	ErrUnknownSession = errors.New("unknown session")
)
