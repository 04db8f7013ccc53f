package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pursuit-racer/internal/core"
)

// palette holds the ANSI 256 code for each core.Color, indexed by value.
var palette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var cellStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		styles[i] = lipgloss.NewStyle()
		if code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(cellStyles) {
		return cellStyles[c]
	}
	return cellStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
