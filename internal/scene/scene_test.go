package scene

import (
	"strings"
	"testing"

	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
	"github.com/vovakirdan/playforge/internal/registry"
)

func TestBuiltinLevelsRegistered(t *testing.T) {
	levels, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if len(levels) < len(mechanics.Types()) {
		t.Errorf("got %d levels, expected one per genre at least", len(levels))
	}

	genres := make(map[mechanics.Type]bool)
	for _, l := range levels {
		if !registry.Exists(l.ID()) {
			t.Errorf("level %s not registered", l.ID())
		}
		genres[l.Genre()] = true
	}
	for _, typ := range mechanics.Types() {
		if !genres[typ] {
			t.Errorf("no built-in level for %v", typ)
		}
	}
}

func TestLevelsPopulateInsideWorld(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := registry.Create(info.ID)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			cfg := mechanics.DefaultConfig(s.Genre())
			s.Configure(&cfg)
			e := engine.New(cfg, engine.WithLevel(s.Populate))
			w := e.World()

			for _, b := range w.AllBodies() {
				if physics.IsBound(b.ID) {
					continue
				}
				p := b.Position()
				if p.X < 0 || p.X > cfg.WorldWidth || p.Y < 0 || p.Y > cfg.WorldHeight {
					t.Errorf("%s at %v lies outside %vx%v", b.ID, p, cfg.WorldWidth, cfg.WorldHeight)
				}
			}
			if len(w.BodiesOfType(physics.BodyTrigger)) == 0 {
				t.Error("level has no triggers")
			}
			if _, ok := w.Body(engine.GoalID); !ok {
				t.Error("level has no goal")
			}
		})
	}
}

func TestMeadowIntroAndConfigure(t *testing.T) {
	s, err := registry.Create("meadow")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cfg := mechanics.DefaultConfig(mechanics.Platformer)
	s.Configure(&cfg)
	if cfg.WorldWidth != 1600 || cfg.Start.X != 80 {
		t.Errorf("Configure did not apply: %+v", cfg)
	}
	intro := s.Intro()
	if len(intro) != 2 || intro[1].At.Milliseconds() != 1500 {
		t.Errorf("intro = %+v", intro)
	}

	other, _ := registry.Create("meadow")
	other.(*Level).Platforms[0].X = -1
	if s.(*Level).Platforms[0].X == -1 {
		t.Error("scene instances should not share level data")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"no id", "title: x\ngenre: puzzle\n", "missing id"},
		{"bad genre", "id: x\ngenre: racing\n", "unknown type"},
		{"flat platform", "id: x\nplatforms:\n  - { x: 1, y: 1, w: 0, h: 5 }\n", "no size"},
		{"ball", "id: x\nballs:\n  - { x: 1, y: 1 }\n", "no radius"},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.src))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, expected %q", tc.name, err, tc.want)
		}
	}

	l, err := Parse([]byte("id: bare\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if l.Title() != "bare" || l.Genre() != mechanics.Platformer {
		t.Errorf("defaults not applied: %+v", l)
	}
}
