package pong

import "github.com/vovakirdan/pong-arena/internal/physics"

// Respond applies the arena bounce rule to the ball after it started
// touching other.
//
// The direction is mirrored on the contact normal. Paddles additionally
// scale the vertical direction by a random factor in [0.85, 1.15) without
// renormalizing it first. Whatever was hit, the ball leaves faster by
// BallSpeedIncrement than it arrived.
func Respond(ball, other *physics.Body, contact physics.Contact, rng physics.Rand) {
	speed := ball.Speed()
	if speed == 0 {
		return
	}

	dir := ball.Vel.Scale(1 / speed)
	if dir.Dot(contact.Normal) < 0 {
		dir = dir.Reflect(contact.Normal)
	}

	if other.Label == physics.LabelPaddle {
		mod := 1 + (rng.Float64()-0.5)*PaddleBounceScale
		dir.Y *= mod
	}

	ball.Vel = dir.Scale(speed)
	ball.SetSpeed(speed + BallSpeedIncrement)
}
