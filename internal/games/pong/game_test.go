package pong

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/pong-arena/internal/core"
	"github.com/vovakirdan/pong-arena/internal/physics"
)

const eps = 1e-9

// fixedRand always returns the same draw.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearVec(a, b physics.Vec) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestNewWorld(t *testing.T) {
	w := New(rand.New(rand.NewSource(1)))

	ball := w.Ball()
	if ball.Pos != (physics.Vec{}) {
		t.Errorf("ball position = %v, expected origin", ball.Pos)
	}
	if !near(ball.Speed(), BallSpeedDefault) {
		t.Errorf("ball speed = %v, expected %v", ball.Speed(), BallSpeedDefault)
	}
	if len(w.Bodies()) != 5 {
		t.Fatalf("Bodies() = %d, expected 5", len(w.Bodies()))
	}

	tests := []struct {
		side Side
		x    float64
	}{
		{SideLeft, -PaddleX},
		{SideRight, PaddleX},
	}
	for _, tt := range tests {
		p := w.Paddle(tt.side)
		if p.Pos.X != tt.x || p.Pos.Y != 0 {
			t.Errorf("%v paddle at %v, expected (%v, 0)", tt.side, p.Pos, tt.x)
		}
		if p.Kind != physics.Static {
			t.Errorf("%v paddle kind = %v, expected static", tt.side, p.Kind)
		}
	}
	if w.Paddle(SideNone) != nil {
		t.Error("Paddle(SideNone) should be nil")
	}
}

func TestStepIntegratesOnlyBall(t *testing.T) {
	w := New(fixedRand(0.75))
	w.SetPaddleY(SideLeft, 2)
	before := w.Ball().Pos
	vel := w.Ball().Vel

	res := w.Step()

	if res.Tick != 1 || w.Tick() != 1 {
		t.Errorf("tick = %d, expected 1", res.Tick)
	}
	if !nearVec(w.Ball().Pos, before.Add(vel)) {
		t.Errorf("ball at %v, expected %v", w.Ball().Pos, before.Add(vel))
	}
	if w.Paddle(SideLeft).Pos != physics.V(-PaddleX, 2) {
		t.Errorf("left paddle moved to %v", w.Paddle(SideLeft).Pos)
	}
	for _, b := range w.Bodies()[1:] {
		if b.Vel != (physics.Vec{}) {
			t.Errorf("%s has velocity %v, expected zero", b.Name, b.Vel)
		}
	}
}

func TestWallBounce(t *testing.T) {
	w := New(fixedRand(0.75))
	ball := w.Ball()
	ball.SetPosition(physics.V(0, -4.82))
	ball.Vel = physics.V(0.6, -0.8).Scale(BallSpeedDefault)

	res := w.Step()

	if res.Collisions != 1 {
		t.Fatalf("Collisions = %d, expected 1", res.Collisions)
	}
	if res.Reset {
		t.Fatal("ball should not have been reset")
	}
	expected := physics.V(0.6, 0.8).Scale(BallSpeedDefault + BallSpeedIncrement)
	if !nearVec(ball.Vel, expected) {
		t.Errorf("velocity = %v, expected %v", ball.Vel, expected)
	}
	if !near(ball.Speed(), 0.048) {
		t.Errorf("speed = %v, expected 0.048", ball.Speed())
	}
}

func TestPaddleBounce(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		mod  float64
	}{
		{"upper draw", 0.75, 1.075},
		{"middle draw", 0.5, 1},
		{"lowest draw", 0, 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(fixedRand(tt.draw))
			ball := w.Ball()
			ball.SetPosition(physics.V(4.27, 0))
			ball.Vel = physics.V(0.8, 0.6).Scale(BallSpeedDefault)

			res := w.Step()

			if res.Collisions != 1 {
				t.Fatalf("Collisions = %d, expected 1", res.Collisions)
			}
			expected := physics.V(-0.8, 0.6*tt.mod).Normalize().Scale(BallSpeedDefault + BallSpeedIncrement)
			if !nearVec(ball.Vel, expected) {
				t.Errorf("velocity = %v, expected %v", ball.Vel, expected)
			}
		})
	}
}

func TestCollisionRespondsOncePerContact(t *testing.T) {
	w := New(fixedRand(0.5))
	ball := w.Ball()
	// Park the ball inside the top wall: it stays in contact across ticks.
	ball.SetPosition(physics.V(0, -4.9))
	ball.Vel = physics.V(0, -0.01)

	first := w.Step()
	if first.Collisions != 1 {
		t.Fatalf("first step Collisions = %d, expected 1", first.Collisions)
	}
	speed := ball.Speed()

	second := w.Step()
	if second.Collisions != 0 {
		t.Errorf("second step Collisions = %d, expected 0 while still touching", second.Collisions)
	}
	if !near(ball.Speed(), speed) {
		t.Errorf("speed changed to %v while touching, expected %v", ball.Speed(), speed)
	}
}

func TestRespondSkipsReflectionWhenSeparating(t *testing.T) {
	ball := physics.NewBall(BallRadius)
	ball.Vel = physics.V(0, 0.042)
	wall := physics.NewStaticBox("top", physics.LabelWall, physics.V(0, -WallY), WallHalfWidth*2, WallThickness)

	Respond(ball, wall, physics.Contact{Normal: physics.V(0, 1), Depth: 0.01}, fixedRand(0.5))

	if !nearVec(ball.Vel, physics.V(0, 0.048)) {
		t.Errorf("velocity = %v, expected (0, 0.048)", ball.Vel)
	}
}

func TestResetBall(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ball := physics.NewBall(BallRadius)

	for i := 0; i < 200; i++ {
		ball.SetPosition(physics.V(3, 3))
		ball.Vel = physics.V(1, 1)
		ResetBall(ball, rng)

		if ball.Pos != (physics.Vec{}) {
			t.Fatalf("reset position = %v, expected origin", ball.Pos)
		}
		if !near(ball.Speed(), BallSpeedDefault) {
			t.Fatalf("reset speed = %v, expected %v", ball.Speed(), BallSpeedDefault)
		}
		// |heading.y| <= |heading.x| since y is drawn from [-1, 1) before normalizing.
		if math.Abs(ball.Vel.Y) > math.Abs(ball.Vel.X)+eps {
			t.Fatalf("reset heading %v is steeper than 45 degrees", ball.Vel)
		}
	}
}

func TestResetBallHeading(t *testing.T) {
	tests := []struct {
		draw     float64
		expected physics.Vec
	}{
		{0.75, physics.V(1, 0.5)},
		{0.5, physics.V(-1, 0)},
		{0.25, physics.V(-1, -0.5)},
	}

	for _, tt := range tests {
		ball := physics.NewBall(BallRadius)
		ResetBall(ball, fixedRand(tt.draw))
		expected := tt.expected.Normalize().Scale(BallSpeedDefault)
		if !nearVec(ball.Vel, expected) {
			t.Errorf("ResetBall(draw %v) velocity = %v, expected %v", tt.draw, ball.Vel, expected)
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	tests := []struct {
		x, y     float64
		expected bool
	}{
		{0, 0, false},
		{7, 0, false},
		{-7, 0, false},
		{7.01, 0, true},
		{-7.01, 0, true},
		{0, 5, false},
		{0, 5.01, true},
		{0, -5.01, true},
		{6.9, 4.9, false},
	}

	for _, tt := range tests {
		if got := OutOfBounds(tt.x, tt.y); got != tt.expected {
			t.Errorf("OutOfBounds(%v, %v) = %v, expected %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestStepResetsOutOfBounds(t *testing.T) {
	tests := []struct {
		name     string
		pos      physics.Vec
		expected bool
	}{
		{"inside", physics.V(6.9, 0), false},
		{"on the line", physics.V(-7, 0), false},
		{"past right", physics.V(7.01, 0), true},
		{"past left", physics.V(-7.5, 1), true},
		{"past bottom", physics.V(0, 5.2), true},
		{"past top", physics.V(5, -5.2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(fixedRand(0.75))
			w.Ball().SetPosition(tt.pos)
			w.Ball().Vel = physics.Vec{}

			res := w.Step()
			if res.Reset != tt.expected {
				t.Errorf("Reset = %v, expected %v", res.Reset, tt.expected)
			}
		})
	}
}

func TestBallLeavingRightIsServedAgain(t *testing.T) {
	w := New(rand.New(rand.NewSource(7)))
	w.Ball().SetPosition(physics.V(7.5, 0))
	w.Ball().Vel = physics.V(0.2, 0)

	res := w.Step()

	if !res.Reset {
		t.Fatal("expected reset")
	}
	snap := w.Snapshot()
	if snap.BallPosition != (Position{}) {
		t.Errorf("ball position = %v, expected origin", snap.BallPosition)
	}
	if !near(w.Ball().Speed(), BallSpeedDefault) {
		t.Errorf("speed = %v, expected %v", w.Ball().Speed(), BallSpeedDefault)
	}
}

func TestSetPaddleY(t *testing.T) {
	w := New(fixedRand(0.5))
	w.SetPaddleY(SideRight, -3.2)
	w.SetPaddleY(SideNone, 1)

	if w.Paddle(SideRight).Pos != physics.V(PaddleX, -3.2) {
		t.Errorf("right paddle at %v, expected (%v, -3.2)", w.Paddle(SideRight).Pos, PaddleX)
	}
	snap := w.Snapshot()
	if snap.RightPaddlePositionY != -3.2 || snap.LeftPaddlePositionY != 0 {
		t.Errorf("snapshot paddles = %v / %v", snap.LeftPaddlePositionY, snap.RightPaddlePositionY)
	}
}

func TestClampPaddleY(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{3, 3},
		{100, PaddleLimitY},
		{-100, -PaddleLimitY},
		{PaddleLimitY, PaddleLimitY},
	}
	for _, tt := range tests {
		if got := ClampPaddleY(tt.in); got != tt.expected {
			t.Errorf("ClampPaddleY(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestPlayersAssign(t *testing.T) {
	var p Players
	if s := p.Assign("a"); s != SideLeft {
		t.Errorf("first Assign = %v, expected left", s)
	}
	if s := p.Assign("b"); s != SideRight {
		t.Errorf("second Assign = %v, expected right", s)
	}
	if s := p.Assign("c"); s != SideNone {
		t.Errorf("third Assign = %v, expected none", s)
	}
	if p.Left != "a" || p.Right != "b" {
		t.Errorf("slots = %+v, expected a/b", p)
	}
	if p.SideOf("b") != SideRight || p.SideOf("c") != SideNone || p.SideOf("") != SideNone {
		t.Error("SideOf returned an unexpected side")
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Tick:                 9,
		Players:              Players{Left: "abc"},
		BallPosition:         Position{X: 1.5, Y: -2},
		LeftPaddlePositionY:  0.25,
		RightPaddlePositionY: -1,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	expected := `{"players":{"left":"abc","right":null},"ballPosition":{"x":1.5,"y":-2},"leftPaddlePositionY":0.25,"rightPaddlePositionY":-1}`
	if string(data) != expected {
		t.Errorf("Marshal = %s, expected %s", data, expected)
	}

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Players != snap.Players {
		t.Errorf("players = %+v, expected %+v", back.Players, snap.Players)
	}
}

func TestRender(t *testing.T) {
	scr := core.NewScreen(41, 12)
	snap := Snapshot{
		Players:              Players{Left: "me", Right: "opponent-123"},
		BallPosition:         Position{},
		LeftPaddlePositionY:  0,
		RightPaddlePositionY: 0,
	}

	Render(scr, snap, "me")

	if !strings.HasPrefix(scr.Row(0), "you") {
		t.Errorf("HUD row = %q, expected it to start with 'you'", scr.Row(0))
	}
	if !strings.HasSuffix(scr.Row(0), "opponent") {
		t.Errorf("HUD row = %q, expected it to end with the opponent id", scr.Row(0))
	}

	found := false
	for y := 1; y < scr.Height(); y++ {
		if strings.ContainsRune(scr.Row(y), '●') {
			found = true
		}
	}
	if !found {
		t.Error("ball not drawn")
	}

	own := false
	for y := 1; y < scr.Height(); y++ {
		for x := 0; x < scr.Width(); x++ {
			c := scr.GetCell(x, y)
			if c.Rune == '█' && c.Color == core.ColorBrightCyan {
				own = true
			}
		}
	}
	if !own {
		t.Error("own paddle should be highlighted")
	}
}

func TestRenderTinyScreen(t *testing.T) {
	scr := core.NewScreen(2, 2)
	Render(scr, Snapshot{}, "")
	if scr.String() != "  \n  " {
		t.Errorf("tiny screen = %q, expected blank", scr.String())
	}
}

func TestRenderWaitingBanner(t *testing.T) {
	tests := []struct {
		name    string
		players Players
		banner  bool
	}{
		{"both seated", Players{Left: "a", Right: "b"}, false},
		{"right empty", Players{Left: "a"}, true},
		{"no players", Players{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr := core.NewScreen(41, 12)
			Render(scr, Snapshot{Players: tt.players}, "a")
			got := strings.Contains(scr.String(), "waiting for opponent")
			if got != tt.banner {
				t.Errorf("banner shown = %v, expected %v", got, tt.banner)
			}
		})
	}
}
