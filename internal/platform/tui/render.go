package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// glyph is how one kind of body is drawn.
type glyph struct {
	fill  rune
	color core.Color
}

// glyphFor picks the fill and colour of b.
func glyphFor(b *physics.Body) glyph {
	switch b.Type {
	case physics.BodyPlayer:
		return glyph{'█', core.ColorBrightYellow}
	case physics.BodyPlatform:
		return glyph{'▀', core.ColorGreen}
	case physics.BodyObstacle:
		if b.IsStatic {
			return glyph{'▓', core.ColorOrange}
		}
		return glyph{'▒', core.ColorOrange}
	case physics.BodyProjectile:
		return glyph{'•', core.ColorBrightRed}
	case physics.BodyDynamic:
		return glyph{'o', core.ColorCyan}
	case physics.BodyTrigger:
		switch {
		case b.ID == engine.GoalID:
			return glyph{'⚑', core.ColorBrightGreen}
		case strings.HasPrefix(b.ID, mechanics.TargetPrefix):
			return glyph{'◎', core.ColorRed}
		case strings.HasPrefix(b.ID, engine.CollectiblePrefix):
			return glyph{'*', core.ColorYellow}
		}
		return glyph{'·', core.ColorMagenta}
	}
	return glyph{'#', core.ColorWhite}
}

// Rasterize draws every body through the camera. Each body covers the cells
// its projected bounding box touches, and always at least one.
func Rasterize(dst *core.Screen, w *physics.World, cam *camera.Controller) {
	cfg := cam.Config()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	cellW := cfg.ViewportWidth / float64(dst.Width())
	cellH := cfg.ViewportHeight / float64(dst.Height())
	view := cam.View()

	// Players and projectiles go last so scenery never hides them.
	bodies := w.AllBodies()
	ordered := make([]*physics.Body, 0, len(bodies))
	var top []*physics.Body
	for _, b := range bodies {
		if physics.IsBound(b.ID) {
			continue
		}
		if b.Type == physics.BodyPlayer || b.Type == physics.BodyProjectile {
			top = append(top, b)
			continue
		}
		ordered = append(ordered, b)
	}
	ordered = append(ordered, top...)

	for _, b := range ordered {
		bb := b.Bounds()
		x0, y0 := cam.Project(view, bb.MinX, bb.MinY)
		x1, y1 := cam.Project(view, bb.MaxX, bb.MaxY)

		cx0 := int(math.Floor(x0 / cellW))
		cy0 := int(math.Floor(y0 / cellH))
		cx1 := int(math.Ceil(x1/cellW)) - 1
		cy1 := int(math.Ceil(y1/cellH)) - 1
		if cx1 < cx0 {
			cx1 = cx0
		}
		if cy1 < cy0 {
			cy1 = cy0
		}

		g := glyphFor(b)
		dst.DrawRect(core.NewRect(cx0, cy0, cx1-cx0+1, cy1-cy0+1), g.fill, g.color)
	}
}

// DrawHUD writes the status line on the bottom row.
func DrawHUD(dst *core.Screen, title string, st mechanics.GameState, status engine.Status) {
	line := fmt.Sprintf(" %s  score %d  items %d  time %s ", title, st.Score, st.Collectibles, formatClock(st.Time))
	dst.DrawTextColored(0, dst.Height()-1, line, core.ColorWhite)

	switch {
	case st.IsGameOver:
		mid := dst.Height() / 2
		dst.DrawTextCentered(mid, " GOAL REACHED ", core.ColorBrightGreen)
		dst.DrawTextCentered(mid+1, fmt.Sprintf(" score %d ", st.Score), core.ColorWhite)
		dst.DrawTextCentered(mid+2, " R: restart  Ctrl+B: menu ", core.ColorGray)
	case status == engine.Paused:
		dst.DrawTextCentered(dst.Height()/2, " PAUSED ", core.ColorBrightYellow)
	}
}

func formatClock(d time.Duration) string {
	s := d.Seconds()
	return fmt.Sprintf("%d:%04.1f", int(s)/60, math.Mod(s, 60))
}
