package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
)

func newRenderRig() (*core.Screen, *physics.World, *camera.Controller) {
	w := physics.NewWorld(physics.DefaultConfig())
	w.CreateBounds(0)
	cam := camera.NewController(camera.DefaultConfig())
	// 80x30 cells over an 800x600 viewport: one cell is 10x20 px.
	return core.NewScreen(80, 30), w, cam
}

func TestRasterizeProjectsBodies(t *testing.T) {
	screen, w, cam := newRenderRig()
	w.CreatePlayer(mechanics.PlayerID, 400, 300, 20, 20)
	w.CreateTrigger(engine.GoalID, 700, 500, 20, 40)

	Rasterize(screen, w, cam)

	for _, c := range [][2]int{{39, 14}, {40, 14}, {39, 15}, {40, 15}} {
		if cell := screen.GetCell(c[0], c[1]); cell.Rune != '█' || cell.Color != core.ColorBrightYellow {
			t.Errorf("cell %v = %q, expected player", c, cell.Rune)
		}
	}
	if r := screen.Get(38, 14); r != ' ' {
		t.Errorf("cell left of player = %q, expected blank", r)
	}
	if r := screen.Get(69, 24); r != '⚑' {
		t.Errorf("goal cell = %q, expected flag", r)
	}
	// Boundary walls sit outside the world and are never drawn.
	if strings.TrimSpace(screen.Row(0)) != "" {
		t.Errorf("top row should be empty, got %q", screen.Row(0))
	}
}

func TestRasterizeFollowsCamera(t *testing.T) {
	screen, w, cam := newRenderRig()
	cam.UpdateConfig(func(c *camera.Config) {
		c.WorldBounds = core.Bounds{MaxX: 1600, MaxY: 600}
	})
	w.CreatePlayer(mechanics.PlayerID, 1200, 300, 20, 20)

	cam.SetPosition(1200, 300)
	Rasterize(screen, w, cam)
	if r := screen.Get(40, 15); r != '█' {
		t.Errorf("player not centred after camera move, got %q", r)
	}
}

func TestRasterizeTinyBodies(t *testing.T) {
	screen, w, cam := newRenderRig()
	w.CreateProjectile("projectile-1", 105, 105, 2)

	Rasterize(screen, w, cam)
	if r := screen.Get(10, 5); r != '•' {
		t.Errorf("projectile cell = %q, expected one cell even when smaller than it", r)
	}
}

func TestDrawHUD(t *testing.T) {
	screen := core.NewScreen(80, 24)
	st := mechanics.GameState{Score: 30, Collectibles: 3, Time: 75 * time.Second}

	DrawHUD(screen, "Meadow Run", st, engine.Running)
	bottom := screen.Row(23)
	for _, want := range []string{"Meadow Run", "score 30", "items 3", "time 1:15.0"} {
		if !strings.Contains(bottom, want) {
			t.Errorf("HUD %q missing %q", bottom, want)
		}
	}

	screen.Clear()
	DrawHUD(screen, "x", st, engine.Paused)
	if !strings.Contains(screen.Row(12), "PAUSED") {
		t.Error("paused banner missing")
	}

	screen.Clear()
	st.IsGameOver = true
	DrawHUD(screen, "x", st, engine.Running)
	if !strings.Contains(screen.Row(12), "GOAL REACHED") {
		t.Error("game over banner missing")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	screen := core.NewScreen(5, 1)
	screen.DrawTextColored(0, 0, "ab", core.ColorRed)
	screen.DrawTextColored(2, 0, "cde", core.ColorGray)

	out := RenderScreen(screen)
	for _, want := range []string{"ab", "cde"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() = %q, missing %q", out, want)
		}
	}
}
