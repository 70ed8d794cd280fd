package pong

import "github.com/vovakirdan/pong-arena/internal/physics"

// ResetBall serves the ball from the origin at the default speed.
// The horizontal heading is a coin flip, the vertical one is uniform in [-1, 1).
func ResetBall(ball *physics.Body, rng physics.Rand) {
	ball.SetPosition(physics.Vec{})

	dirX := -1.0
	if rng.Float64() > 0.5 {
		dirX = 1
	}
	dirY := (rng.Float64() - 0.5) * 2

	heading := physics.V(dirX, dirY).Normalize()
	ball.Vel = heading.Scale(BallSpeedDefault)
}
