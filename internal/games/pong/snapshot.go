package pong

import (
	"encoding/json"
)

// Players maps paddles to the player identities that own them.
// An empty string is an unassigned slot.
type Players struct {
	Left  string
	Right string
}

// Assign gives id the first free slot, left before right.
// Occupied slots are never overwritten; SideNone is returned when both are taken.
func (p *Players) Assign(id string) Side {
	switch {
	case p.Left == "":
		p.Left = id
		return SideLeft
	case p.Right == "":
		p.Right = id
		return SideRight
	default:
		return SideNone
	}
}

// SideOf returns which paddle id owns.
func (p Players) SideOf(id string) Side {
	if id == "" {
		return SideNone
	}
	switch id {
	case p.Left:
		return SideLeft
	case p.Right:
		return SideRight
	default:
		return SideNone
	}
}

type playersJSON struct {
	Left  *string `json:"left"`
	Right *string `json:"right"`
}

// MarshalJSON encodes empty slots as null.
func (p Players) MarshalJSON() ([]byte, error) {
	var out playersJSON
	if p.Left != "" {
		out.Left = &p.Left
	}
	if p.Right != "" {
		out.Right = &p.Right
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null slots.
func (p *Players) UnmarshalJSON(data []byte) error {
	var in playersJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Players{}
	if in.Left != nil {
		p.Left = *in.Left
	}
	if in.Right != nil {
		p.Right = *in.Right
	}
	return nil
}

// Position is a point in arena units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is the per-tick state sent to every member of a room.
type Snapshot struct {
	Tick                 uint64   `json:"-"`
	Players              Players  `json:"players"`
	BallPosition         Position `json:"ballPosition"`
	LeftPaddlePositionY  float64  `json:"leftPaddlePositionY"`
	RightPaddlePositionY float64  `json:"rightPaddlePositionY"`
}

// Snapshot projects the world. Players is left for the caller to fill in.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Tick:                 w.tick,
		BallPosition:         Position{X: w.ball.Pos.X, Y: w.ball.Pos.Y},
		LeftPaddlePositionY:  w.paddleLeft.Pos.Y,
		RightPaddlePositionY: w.paddleRight.Pos.Y,
	}
}
