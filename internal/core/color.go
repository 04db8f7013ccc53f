package core

// Color is a foreground color for a screen cell. The platform maps each
// value to an ANSI 256-color code.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Roles on the track.
const (
	ColorPlayer  = ColorBrightYellow
	ColorChaser  = ColorRed
	ColorPowerUp = ColorBrightGreen
	ColorTrack   = ColorGray
	ColorFinish  = ColorBrightWhite
	ColorDanger  = ColorBrightRed
)
