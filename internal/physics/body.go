package physics

// Label classifies a body for collision response.
type Label string

const (
	LabelBall   Label = "ball"
	LabelPaddle Label = "paddle"
	LabelWall   Label = "wall"
)

// Kind tells whether the simulation integrates a body.
type Kind int

const (
	// Dynamic bodies move under their velocity every step.
	Dynamic Kind = iota
	// Static bodies never move under simulation; they can only be repositioned.
	Static
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// ShapeKind identifies the geometry of a Shape.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape is either a circle (Radius) or an axis-aligned box (HalfW, HalfH).
type Shape struct {
	Kind   ShapeKind
	Radius float64
	HalfW  float64
	HalfH  float64
}

// Circle returns a circle shape with radius r.
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Box returns an axis-aligned box shape of full width w and height h.
func Box(w, h float64) Shape {
	return Shape{Kind: ShapeBox, HalfW: w / 2, HalfH: h / 2}
}

// Material constants shared by every body in the arena.
const (
	Restitution = 1.0
	Friction    = 0.0
)

// Body is a rigid object in the arena.
type Body struct {
	Name  string // "ball", "left", "right", "top", "bottom"
	Label Label
	Kind  Kind
	Shape Shape

	Pos Vec
	Vel Vec

	Restitution float64
	Friction    float64
}

// NewBall creates the dynamic ball body at the origin.
func NewBall(radius float64) *Body {
	return &Body{
		Name:        string(LabelBall),
		Label:       LabelBall,
		Kind:        Dynamic,
		Shape:       Circle(radius),
		Restitution: Restitution,
		Friction:    Friction,
	}
}

// NewStaticBox creates a static box body centered at pos.
func NewStaticBox(name string, label Label, pos Vec, w, h float64) *Body {
	return &Body{
		Name:        name,
		Label:       label,
		Kind:        Static,
		Shape:       Box(w, h),
		Pos:         pos,
		Restitution: Restitution,
		Friction:    Friction,
	}
}

// Integrate advances a dynamic body by step nominal ticks.
// Static bodies are left untouched.
func (b *Body) Integrate(step float64) {
	if b.Kind == Static {
		return
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(step))
}

// SetPosition teleports the body. Used for static bodies moved by input
// and for resetting the ball.
func (b *Body) SetPosition(p Vec) {
	b.Pos = p
}

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Vel.Len()
}

// SetSpeed rescales the velocity to the given magnitude, keeping its direction.
// A body at rest stays at rest.
func (b *Body) SetSpeed(speed float64) {
	b.Vel = b.Vel.Normalize().Scale(speed)
}
