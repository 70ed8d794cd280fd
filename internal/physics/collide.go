package physics

import "math"

// Contact describes an overlap between a circle and a box.
type Contact struct {
	// Normal is the unit axis of least penetration, pointing from the box
	// towards the circle.
	Normal Vec
	// Depth is the penetration along Normal.
	Depth float64
}

// CircleBox tests a circle body against a box body.
//
// The separating threshold on each axis is the box half-extent plus the
// circle radius, so the test is the circle's bounding square against the box.
func CircleBox(circle, box *Body) (Contact, bool) {
	d := circle.Pos.Sub(box.Pos)
	limitX := box.Shape.HalfW + circle.Shape.Radius
	limitY := box.Shape.HalfH + circle.Shape.Radius

	penX := limitX - math.Abs(d.X)
	penY := limitY - math.Abs(d.Y)
	if penX <= 0 || penY <= 0 {
		return Contact{}, false
	}

	if penX < penY {
		return Contact{Normal: V(sign(d.X), 0), Depth: penX}, true
	}
	return Contact{Normal: V(0, sign(d.Y)), Depth: penY}, true
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// Rand is the random source used by collision response and ball resets.
// *math/rand.Rand satisfies it; tests inject fixed sequences.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}
