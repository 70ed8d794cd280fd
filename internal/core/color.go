package core

// Color is a foreground color for a screen cell.
type Color uint8

// Arena palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorWhite
	ColorGray
	ColorBrightYellow
	ColorBrightCyan
)

// ansi maps each color to its ANSI 256-color index.
var ansi = [...]string{
	ColorDefault:      "",
	ColorRed:          "1",
	ColorWhite:        "7",
	ColorGray:         "245",
	ColorBrightYellow: "11",
	ColorBrightCyan:   "14",
}

// ANSI returns the 256-color index of c, or "" for the terminal default
// and unknown colors.
func (c Color) ANSI() string {
	if int(c) >= len(ansi) {
		return ""
	}
	return ansi[c]
}
