package pong

import (
	"math"
	"time"
)

// Arena geometry and tuning. These are fixed for every room.
const (
	TickRate     = 60
	TickInterval = time.Second / TickRate

	// StepScale is how many nominal ticks one Step integrates. Velocities are
	// expressed in arena units per nominal tick, so a tick always moves the
	// ball by exactly its velocity no matter how late the scheduler fired.
	StepScale = 1.0

	BallRadius = 0.1

	PaddleX      = 4.5
	PaddleWidth  = 0.2
	PaddleHeight = 1.0

	WallY         = 5.0
	WallHalfWidth = 4.0
	WallThickness = 0.1

	// Ball is reset once it leaves this box.
	BoundsX = 7.0
	BoundsY = 5.0

	BallSpeedDefault   = 0.042
	BallSpeedIncrement = 0.006

	// PaddleBounceScale turns a uniform draw in [-0.5, 0.5) into a
	// (-15%, +15%) modulation of the vertical direction.
	PaddleBounceScale = 0.3
)

// PaddleLimitY is the furthest a paddle center can sit from the middle
// while staying between the walls.
const PaddleLimitY = WallY - WallThickness/2 - PaddleHeight/2

// OutOfBounds reports whether a ball at (x, y) must be reset.
func OutOfBounds(x, y float64) bool {
	return math.Abs(x) > BoundsX || math.Abs(y) > BoundsY
}

// ClampPaddleY restricts a paddle Y to the playable interior.
func ClampPaddleY(y float64) float64 {
	return math.Max(-PaddleLimitY, math.Min(PaddleLimitY, y))
}
