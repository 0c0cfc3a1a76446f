package core

// Color is a foreground color for a screen cell.
// The platform layer maps it to an ANSI 256-color style.
type Color uint8

// Palette used by the games. ColorDefault leaves the terminal color alone.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorBrightGreen
	ColorGray
)
