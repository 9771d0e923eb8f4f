package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the runner renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorCyan
	ColorBrightRed
	ColorBrightCyan
	ColorBrightWhite
	ColorGray
	ColorDeepCyan   // Unlit background grid
	ColorDeepPurple // Grid lit by the bass
)
