package core

// Color represents a foreground color for a screen cell.
// Hosts map these to ANSI codes or RGB values.
type Color uint8

// Colors used by the scene.
const (
	ColorDefault Color = iota
	ColorGreen
	ColorBrightGreen
	ColorYellow
	ColorBrightYellow
	ColorRed
	ColorCyan
	ColorBrightWhite
	ColorGray
)
