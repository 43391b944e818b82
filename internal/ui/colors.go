package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Plain disables the styling helpers below. It honors the NO_COLOR convention.
var Plain = os.Getenv("NO_COLOR") != ""

func paint(style, s string) string {
	if Plain {
		return s
	}
	return style + s + ColorReset
}

// Bold renders s in bold, e.g. file paths in summaries
func Bold(s string) string {
	return paint(ColorBold, s)
}

// Success renders s in green
func Success(s string) string {
	return paint(ColorGreen, s)
}

// Info renders s as a dim yellow note
func Info(s string) string {
	return paint(ColorDim+ColorYellow, s)
}

// Error renders s in red
func Error(s string) string {
	return paint(ColorRed, s)
}
