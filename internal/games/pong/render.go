package pong

import (
	"fmt"
	"math"

	"github.com/vovakirdan/pong-arena/internal/core"
)

// Visible arena extent. Paddles sit at ±PaddleX so a little margin is kept
// around them; anything beyond is clipped.
const (
	viewHalfW = PaddleX + PaddleWidth*2
	viewHalfH = WallY
)

// Render draws a snapshot onto dst. Row 0 is reserved for the scoreboard line;
// the arena is scaled into the remaining rows. self is the viewer's player
// id and is used only to highlight their paddle.
func Render(dst *core.Screen, snap Snapshot, self string) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 3 || h < 4 {
		return
	}

	col := func(x float64) int {
		return int(math.Round((x + viewHalfW) / (2 * viewHalfW) * float64(w-1)))
	}
	row := func(y float64) int {
		return 1 + int(math.Round((y+viewHalfH)/(2*viewHalfH)*float64(h-2)))
	}

	renderHUD(dst, snap.Players, self)

	// Walls.
	wl, wr := col(-WallHalfWidth), col(WallHalfWidth)
	dst.DrawHLine(wl, row(-WallY), wr-wl+1, '▀', core.ColorWhite)
	dst.DrawHLine(wl, row(WallY), wr-wl+1, '▄', core.ColorWhite)

	// Net.
	mid := col(0)
	for y := row(-WallY) + 1; y < row(WallY); y += 2 {
		dst.SetColored(mid, y, '┊', core.ColorGray)
	}

	side := snap.Players.SideOf(self)
	drawPaddle(dst, col(-PaddleX), row(snap.LeftPaddlePositionY-PaddleHeight/2), row(snap.LeftPaddlePositionY+PaddleHeight/2), side == SideLeft)
	drawPaddle(dst, col(PaddleX), row(snap.RightPaddlePositionY-PaddleHeight/2), row(snap.RightPaddlePositionY+PaddleHeight/2), side == SideRight)

	if snap.Players.Left == "" || snap.Players.Right == "" {
		dst.DrawTextCentered(core.Max(row(0)-2, 1), "waiting for opponent", core.ColorGray)
	}

	bx, by := col(snap.BallPosition.X), row(snap.BallPosition.Y)
	if by >= 1 {
		dst.SetColored(bx, by, '●', core.ColorBrightYellow)
	}
}

func drawPaddle(dst *core.Screen, x, top, bottom int, own bool) {
	color := core.ColorGray
	if own {
		color = core.ColorBrightCyan
	}
	top = core.Clamp(top, 1, dst.Height()-1)
	dst.DrawVLine(x, top, bottom-top+1, '█', color)
}

func renderHUD(dst *core.Screen, p Players, self string) {
	left := slotLabel(p.Left, self)
	right := slotLabel(p.Right, self)

	dst.DrawText(0, 0, left)
	dst.DrawText(dst.Width()-len([]rune(right)), 0, right)
}

func slotLabel(id, self string) string {
	switch {
	case id == "":
		return "waiting..."
	case id == self:
		return "you"
	default:
		return fmt.Sprintf("%.8s", id)
	}
}
