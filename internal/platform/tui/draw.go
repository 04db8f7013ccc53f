package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/pursuit-racer/internal/core"
	"github.com/vovakirdan/pursuit-racer/internal/race"
)

// Visual characters for rendering
const (
	LaneChar     = '┊'
	EdgeChar     = '│'
	FinishChar   = '═'
	PowerUpChar  = '+'
	PickedChar   = '*'
	ChaserChar   = '█'
	ChaserEdge   = '▓'
	minLaneCols  = 3
	maxLaneCols  = 12
	hudRows      = 1 // Status line on top
	trackMarginX = 24
)

// Viewport maps world coordinates to screen cells for one snapshot.
type Viewport struct {
	Left, Top     int // Track area origin
	Width, Height int // Track area size in cells
	LaneCols      int // Columns per lane

	center float64 // Screen column of world x = 0
	topY   float64 // World y at the top edge
	span   float64 // World units shown vertically
	laneW  float64
	lanes  int
}

// NewViewport lays the track out in the middle of a w*h screen.
func NewViewport(snap *race.Snapshot, w, h int) Viewport {
	lanes := max(snap.Lanes, 1)
	laneCols := core.Clamp((w-trackMarginX)/lanes, minLaneCols, maxLaneCols)
	width := lanes * laneCols

	zoom := snap.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	span := snap.ViewHeight / zoom

	v := Viewport{
		Left:     (w - width) / 2,
		Top:      hudRows,
		Width:    width,
		Height:   max(h-hudRows, 1),
		LaneCols: laneCols,
		topY:     snap.CameraY + span/2,
		span:     span,
		laneW:    snap.LaneWidth,
		lanes:    lanes,
	}
	v.center = float64(v.Left) + float64(width)/2
	return v
}

// Col returns the screen column for a world x.
func (v Viewport) Col(x float64) int {
	return int(math.Floor(v.center + x/v.laneW*float64(v.LaneCols)))
}

// Row returns the screen row for a world y. Larger y is further up.
func (v Viewport) Row(y float64) int {
	return v.Top + int(math.Floor((v.topY-y)/v.span*float64(v.Height)))
}

// World converts a screen cell back to world coordinates, taking the
// center of the cell.
func (v Viewport) World(col, row int) (x, y float64) {
	x = (float64(col) + 0.5 - v.center) / float64(v.LaneCols) * v.laneW
	y = v.topY - (float64(row-v.Top)+0.5)/float64(v.Height)*v.span
	return x, y
}

// Inside reports whether a screen row is part of the track area.
func (v Viewport) Inside(row int) bool {
	return row >= v.Top && row < v.Top+v.Height
}

// DrawSnapshot renders the race into the screen buffer.
func DrawSnapshot(screen *core.Screen, snap *race.Snapshot) {
	screen.Clear()
	if snap == nil {
		return
	}
	v := NewViewport(snap, screen.Width(), screen.Height())

	drawTrack(screen, v, snap)
	for _, a := range snap.Actors {
		switch a.Kind {
		case race.KindPowerUp:
			drawPowerUp(screen, v, a)
		case race.KindChaser:
			drawChaser(screen, v, a)
		}
	}
	// Runners on top of everything else
	for _, a := range snap.Actors {
		if a.Kind.IsRunner() {
			drawRunner(screen, v, a)
		}
	}

	drawHUD(screen, snap)
	drawOverlay(screen, snap)
}

func drawTrack(screen *core.Screen, v Viewport, snap *race.Snapshot) {
	for row := v.Top; row < v.Top+v.Height; row++ {
		for i := 0; i <= v.lanes; i++ {
			col := v.Left + i*v.LaneCols
			if i == 0 || i == v.lanes {
				screen.SetColored(col, row, EdgeChar, core.ColorTrack)
				continue
			}
			screen.SetColored(col, row, LaneChar, core.ColorTrack)
		}
	}

	if row := v.Row(snap.FinishY); v.Inside(row) {
		screen.DrawHLine(v.Left, row, v.Width+1, FinishChar, core.ColorFinish)
	}
}

func drawPowerUp(screen *core.Screen, v Viewport, a race.ActorState) {
	row := v.Row(a.Y)
	if !v.Inside(row) {
		return
	}
	if a.Picked {
		// Fades out over the pickup animation
		if a.Pickup < 0.5 {
			screen.SetColored(v.Col(a.X), row, PickedChar, core.ColorBrightYellow)
		}
		return
	}
	screen.SetColored(v.Col(a.X), row, PowerUpChar, core.ColorPowerUp)
}

// drawChaser fills a rough circle scaled to the chaser's radius.
func drawChaser(screen *core.Screen, v Viewport, a race.ActorState) {
	rows := max(a.Radius/v.span*float64(v.Height), 1)
	cols := a.Radius / v.laneW * float64(v.LaneCols)
	cy := v.Row(a.Y)
	cx := v.Col(a.X)

	for dy := -int(rows); dy <= int(rows); dy++ {
		row := cy + dy
		if !v.Inside(row) {
			continue
		}
		frac := float64(dy) / rows
		half := int(cols * math.Sqrt(max(1-frac*frac, 0)))
		for dx := -half; dx <= half; dx++ {
			ch := ChaserChar
			if dx == -half || dx == half {
				ch = ChaserEdge
			}
			screen.SetColored(cx+dx, row, ch, core.ColorChaser)
		}
	}
}

func drawRunner(screen *core.Screen, v Viewport, a race.ActorState) {
	row := v.Row(a.Y)
	if !v.Inside(row) {
		return
	}
	color := core.ColorPlayer
	if a.Kind != race.KindPlayer {
		color = opponentColors[a.Kind]
		if a.Slowed {
			color = core.ColorGray
		}
	}
	screen.SetColored(v.Col(a.X), row, runnerGlyph(a), color)
}

var opponentColors = map[race.Kind]core.Color{
	race.KindOpponentA: core.ColorBrightCyan,
	race.KindOpponentB: core.ColorBrightMagenta,
	race.KindOpponentC: core.ColorOrange,
}

// runnerGlyph picks a presentation from the runner's phase.
func runnerGlyph(a race.ActorState) rune {
	switch a.Phase {
	case race.RunnerCrouched:
		return 'o'
	case race.RunnerShiftingLeft:
		return '<'
	case race.RunnerShiftingRight:
		return '>'
	case race.RunnerStanding:
		return 'Y'
	case race.RunnerDying:
		return '*'
	case race.RunnerDead:
		return 'x'
	}
	switch a.Kind {
	case race.KindOpponentA:
		return 'A'
	case race.KindOpponentB:
		return 'B'
	case race.KindOpponentC:
		return 'C'
	default:
		return '@'
	}
}

func drawHUD(screen *core.Screen, snap *race.Snapshot) {
	p := snap.Player()
	left := fmt.Sprintf(" TIME %6.1f  SPEED %3.0f", snap.Elapsed, p.VY)
	screen.DrawTextColored(0, 0, left, core.ColorBrightWhite)

	togo := max(snap.FinishY-p.Y, 0)
	gap := p.Y - snap.Chaser().Y
	right := fmt.Sprintf("TO GO %5.0f  GAP %4.0f ", togo, gap)
	gapColor := core.ColorGreen
	if gap < 60 {
		gapColor = core.ColorDanger
	}
	screen.DrawTextColored(screen.Width()-len(right), 0, right, gapColor)
}

func drawOverlay(screen *core.Screen, snap *race.Snapshot) {
	mid := screen.Height() / 2
	switch snap.Phase {
	case race.PhaseTitle:
		drawBanner(screen, mid, "P U R S U I T", core.ColorBrightYellow)
	case race.PhaseSetup:
		if snap.TutorialVisible {
			drawBanner(screen, mid-1, "Change lanes with ←/→ or a click", core.ColorBrightWhite)
			screen.DrawTextCentered(mid+1, "Grab + to speed up. Don't get caught!", core.ColorWhite)
			screen.DrawTextCentered(mid+2, "press enter", core.ColorGray)
			return
		}
		drawBanner(screen, mid, "Runners, take your marks", core.ColorBrightWhite)
	case race.PhaseSuccess:
		drawBanner(screen, mid, fmt.Sprintf("FINISHED %s  %.1fs", ordinal(snap.Place), snap.Elapsed), core.ColorBrightGreen)
		screen.DrawTextCentered(mid+2, "r: race again", core.ColorGray)
	case race.PhaseFail:
		drawBanner(screen, mid, fmt.Sprintf("CAUGHT after %.1fs", snap.Elapsed), core.ColorBrightRed)
		screen.DrawTextCentered(mid+2, "r: race again", core.ColorGray)
	}
}

// DrawCountdown shows the current countdown number in the middle.
func DrawCountdown(screen *core.Screen, n int) {
	text := "GO!"
	if n > 0 {
		text = fmt.Sprintf("%d", n)
	}
	drawBanner(screen, screen.Height()/2, text, core.ColorBrightYellow)
}

func drawBanner(screen *core.Screen, row int, text string, c core.Color) {
	width := len([]rune(text)) + 4
	left := (screen.Width() - width) / 2
	screen.DrawBox(core.NewRect(left, row-1, width, 3), c)
	screen.DrawTextCentered(row, text, c)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
