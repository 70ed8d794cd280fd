package multiplayer

import (
	"sync"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
	"github.com/vovakirdan/pong-arena/internal/physics"
)

// Room is one arena: its simulation, player slots and lifecycle state.
// Every tick and every input mutation holds the room's lock, so they never
// interleave.
type Room struct {
	id RoomID

	mu      sync.Mutex
	state   RoomState
	world   *pong.World
	players pong.Players
	cancel  func()
}

func newRoom(id RoomID, rng physics.Rand) *Room {
	return &Room{
		id:    id,
		state: RoomCreated,
		world: pong.New(rng),
	}
}

// ID returns the room identifier.
func (r *Room) ID() RoomID {
	return r.id
}

// State returns the current lifecycle state.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Players returns a copy of the slot assignment.
func (r *Room) Players() pong.Players {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players
}

// Join assigns playerID to the first free slot. A player already seated keeps
// their side; a full room returns SideNone.
func (r *Room) Join(playerID string) pong.Side {
	r.mu.Lock()
	defer r.mu.Unlock()
	if side := r.players.SideOf(playerID); side != pong.SideNone {
		return side
	}
	return r.players.Assign(playerID)
}

// MovePaddle teleports the paddle owned by playerID to y.
// It returns SideNone, and changes nothing, when playerID owns no paddle
// or the room has ended.
func (r *Room) MovePaddle(playerID string, y float64) pong.Side {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RoomEnded {
		return pong.SideNone
	}
	side := r.players.SideOf(playerID)
	r.world.SetPaddleY(side, y)
	return side
}

// Snapshot projects the current state without stepping.
func (r *Room) Snapshot() pong.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() pong.Snapshot {
	snap := r.world.Snapshot()
	snap.Players = r.players
	return snap
}

// tick advances the room by one step. It reports false for an ended room,
// whose scheduled tick may still fire once after cancellation.
func (r *Room) tick() (pong.Snapshot, pong.StepResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RoomEnded {
		return pong.Snapshot{}, pong.StepResult{}, false
	}
	r.state = RoomActive
	res := r.world.Step()
	return r.snapshotLocked(), res, true
}

func (r *Room) setCancel(cancel func()) {
	r.mu.Lock()
	ended := r.state == RoomEnded
	if !ended {
		r.cancel = cancel
	}
	r.mu.Unlock()
	if ended {
		cancel()
	}
}

// end moves the room to Ended and stops its task. It reports whether this
// call did the transition.
func (r *Room) end() bool {
	r.mu.Lock()
	if r.state == RoomEnded {
		r.mu.Unlock()
		return false
	}
	r.state = RoomEnded
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return true
}
