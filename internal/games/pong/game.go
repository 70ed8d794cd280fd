// Package pong implements the authoritative simulation of one arena:
// a ball, two paddles and two walls advanced at a fixed tick.
//
// A World is not safe for concurrent use; the owning room serializes
// ticks and input under its own lock.
package pong

import (
	"github.com/vovakirdan/pong-arena/internal/physics"
)

// Side identifies a paddle.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// String returns the side name used on the wire.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// StepResult summarizes what happened during one tick.
type StepResult struct {
	Tick       uint64
	Collisions int  // collision responses applied this tick
	Reset      bool // ball left the arena and was served again
}

// World holds the five bodies of an arena.
type World struct {
	ball        *physics.Body
	paddleLeft  *physics.Body
	paddleRight *physics.Body
	wallTop     *physics.Body
	wallBottom  *physics.Body

	// obstacles are the bodies the ball can collide with, in a fixed order.
	obstacles []*physics.Body
	// touching[i] is true while the ball overlaps obstacles[i].
	touching []bool

	rng  physics.Rand
	tick uint64
}

// New builds an arena and serves the ball from the origin.
func New(rng physics.Rand) *World {
	w := &World{
		ball:        physics.NewBall(BallRadius),
		paddleLeft:  physics.NewStaticBox("left", physics.LabelPaddle, physics.V(-PaddleX, 0), PaddleWidth, PaddleHeight),
		paddleRight: physics.NewStaticBox("right", physics.LabelPaddle, physics.V(PaddleX, 0), PaddleWidth, PaddleHeight),
		wallTop:     physics.NewStaticBox("top", physics.LabelWall, physics.V(0, -WallY), WallHalfWidth*2, WallThickness),
		wallBottom:  physics.NewStaticBox("bottom", physics.LabelWall, physics.V(0, WallY), WallHalfWidth*2, WallThickness),
		rng:         rng,
	}
	w.obstacles = []*physics.Body{w.paddleLeft, w.paddleRight, w.wallTop, w.wallBottom}
	w.touching = make([]bool, len(w.obstacles))

	ResetBall(w.ball, w.rng)
	return w
}

// Step advances the world by one fixed tick.
func (w *World) Step() StepResult {
	w.tick++
	result := StepResult{Tick: w.tick}

	w.ball.Integrate(StepScale)
	for _, b := range w.obstacles {
		b.Integrate(StepScale)
	}

	for i, other := range w.obstacles {
		contact, hit := physics.CircleBox(w.ball, other)
		if hit && !w.touching[i] {
			Respond(w.ball, other, contact, w.rng)
			result.Collisions++
		}
		w.touching[i] = hit
	}

	if OutOfBounds(w.ball.Pos.X, w.ball.Pos.Y) {
		ResetBall(w.ball, w.rng)
		for i := range w.touching {
			w.touching[i] = false
		}
		result.Reset = true
	}

	return result
}

// Tick returns the number of steps taken so far.
func (w *World) Tick() uint64 {
	return w.tick
}

// Ball returns the ball body.
func (w *World) Ball() *physics.Body {
	return w.ball
}

// Paddle returns the paddle on the given side, or nil.
func (w *World) Paddle(side Side) *physics.Body {
	switch side {
	case SideLeft:
		return w.paddleLeft
	case SideRight:
		return w.paddleRight
	default:
		return nil
	}
}

// Bodies returns every body of the world, ball first.
func (w *World) Bodies() []*physics.Body {
	return []*physics.Body{w.ball, w.paddleLeft, w.paddleRight, w.wallTop, w.wallBottom}
}

// SetPaddleY teleports a paddle vertically. X is never changed.
func (w *World) SetPaddleY(side Side, y float64) {
	p := w.Paddle(side)
	if p == nil {
		return
	}
	p.SetPosition(physics.V(p.Pos.X, y))
}
