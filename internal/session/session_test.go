package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/mechanics"
)

func open(t *testing.T, opts Options) *Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	s, err := Open(opts)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpenScene(t *testing.T) {
	s := open(t, Options{SceneID: "meadow", ViewportW: 640, ViewportH: 480})

	if s.SceneID() != "meadow" || s.Title() != "Meadow Run" {
		t.Errorf("scene = %q %q", s.SceneID(), s.Title())
	}
	if s.Config.Mechanics.Type != mechanics.Platformer {
		t.Errorf("genre = %v, expected platformer", s.Config.Mechanics.Type)
	}
	if b := s.Camera.Config().WorldBounds; b.MaxX != 1600 || b.MaxY != 600 {
		t.Errorf("camera world = %+v, expected 1600x600", b)
	}
	if c := s.Camera.Config(); c.ViewportWidth != 640 || c.ViewportHeight != 480 {
		t.Errorf("viewport = %vx%v", c.ViewportWidth, c.ViewportHeight)
	}
	if _, ok := s.Engine.World().Body("goal"); !ok {
		t.Error("level goal missing")
	}
	p, _ := s.Engine.World().Position(mechanics.PlayerID)
	if p.X != 80 || p.Y != 500 {
		t.Errorf("player at %v, expected level start (80, 500)", p)
	}
}

func TestOpenErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := Open(Options{SceneID: "nowhere"}); err == nil {
		t.Error("expected error for unknown scene")
	}
	if _, err := Open(Options{LevelFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing level file")
	}
	if _, err := Open(Options{Genre: mechanics.TopDown, ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestOpenGenreOnly(t *testing.T) {
	s := open(t, Options{Genre: mechanics.TopDown})

	if s.Scene != nil {
		t.Fatal("expected no scene")
	}
	if s.SceneID() != "top-down" {
		t.Errorf("SceneID() = %q, expected genre name", s.SceneID())
	}
	// Four walls and the player.
	if n := s.Engine.World().Len(); n != 5 {
		t.Errorf("bodies = %d, expected 5", n)
	}
	if s.Camera.Mode() != camera.ModeStatic {
		t.Errorf("camera mode = %v, expected static", s.Camera.Mode())
	}
}

func TestOpenLevelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.yaml")
	level := `id: box
genre: puzzle
world_width: 400
world_height: 300
obstacles:
  - { x: 200, y: 200, w: 40, h: 40 }
`
	if err := os.WriteFile(path, []byte(level), 0o600); err != nil {
		t.Fatal(err)
	}

	s := open(t, Options{LevelFile: path})
	if s.SceneID() != "box" || s.Config.Mechanics.Type != mechanics.Puzzle {
		t.Errorf("loaded %q as %v", s.SceneID(), s.Config.Mechanics.Type)
	}
	if s.Config.Mechanics.WorldWidth != 400 {
		t.Errorf("world width = %v, expected 400", s.Config.Mechanics.WorldWidth)
	}
	if _, ok := s.Engine.World().Body("obstacle-0"); !ok {
		t.Error("obstacle-0 missing")
	}
}

func TestIntroCinematic(t *testing.T) {
	s := open(t, Options{SceneID: "meadow"})
	s.Start()

	if !s.InIntro() || s.Camera.Mode() != camera.ModeCinematic {
		t.Fatalf("intro not playing: mode %v", s.Camera.Mode())
	}

	s.Run(100)
	if s.InIntro() {
		t.Error("intro still playing after its last keyframe")
	}
	if s.Camera.Mode() != camera.ModeFollow {
		t.Errorf("camera mode = %v, expected follow after intro", s.Camera.Mode())
	}
}

func TestSkipIntro(t *testing.T) {
	s := open(t, Options{SceneID: "canyon"})
	s.Start()
	s.SkipIntro()

	if s.InIntro() || s.Camera.IsPlaying() {
		t.Error("intro still playing after SkipIntro")
	}
	s.SkipIntro()
}

func TestRunAdvancesTime(t *testing.T) {
	s := open(t, Options{SceneID: "courtyard"})
	s.Start()
	s.Run(61)

	if s.Now() != 61*Frame {
		t.Errorf("Now() = %v, expected %v", s.Now(), 61*Frame)
	}
	// The first frame only primes the clock.
	if got := s.Engine.State().Time; got != 60*Frame {
		t.Errorf("game time = %v, expected %v", got, 60*Frame)
	}

	s.Reset()
	if got := s.Engine.State().Time; got != 0 {
		t.Errorf("game time after reset = %v", got)
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := open(t, Options{SceneID: "meadow"})
	s.Start()
	s.Run(10)

	snap := s.Snapshot()
	if snap.Scene != "meadow" || snap.Status != "running" {
		t.Errorf("snapshot header = %q %q", snap.Scene, snap.Status)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	for _, want := range []string{`"genre":"platformer"`, `"world"`, `"camera"`, `"state"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot JSON missing %s", want)
		}
	}
}
