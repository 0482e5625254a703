// Package session assembles a playable scene: it loads the genre config,
// lets the scene adjust it, and wires an engine and a camera together so
// hosts only have to feed it a clock.
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/config"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
	"github.com/vovakirdan/playforge/internal/registry"
	"github.com/vovakirdan/playforge/internal/scene"
)

// Frame is the fixed host frame used by headless runs.
const Frame = time.Second / 60

// Options selects what to play.
type Options struct {
	// SceneID names a registered scene. Ignored when LevelFile is set.
	SceneID string
	// LevelFile loads a scene from a YAML file instead of the registry.
	LevelFile string
	// Genre is used when neither SceneID nor LevelFile is given; the engine
	// then runs the template on an empty world.
	Genre mechanics.Type
	// ConfigPath overrides the genre config search.
	ConfigPath string
	// Viewport is the camera viewport in world pixels. Zero keeps the
	// configured size.
	ViewportW, ViewportH float64
	Debug                bool
	// Seed seeds the camera shake; zero keeps the camera's default.
	Seed      int64
	Logger    *log.Logger
	Observers []engine.FrameObserver
}

// Session is one running scene.
type Session struct {
	Scene  registry.Scene // nil for an empty world
	Config config.GenreConfig
	Engine *engine.Engine
	Camera *camera.Controller
	Clock  *engine.ManualScheduler

	now    time.Duration
	intro  bool
	logger *log.Logger
}

// Open builds a stopped session.
func Open(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var sc registry.Scene
	switch {
	case opts.LevelFile != "":
		l, err := scene.LoadFile(opts.LevelFile)
		if err != nil {
			return nil, err
		}
		sc = l
	case opts.SceneID != "":
		s, err := registry.Create(opts.SceneID)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		sc = s
	}

	genre := opts.Genre
	if sc != nil {
		genre = sc.Genre()
	}
	cfg, err := config.Load(genre, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	bindings, err := cfg.InputBindings()
	if err != nil {
		return nil, err
	}

	if sc != nil {
		sc.Configure(&cfg.Mechanics)
	}
	if opts.Debug {
		cfg.Mechanics.Debug = true
	}
	cfg.Camera.WorldBounds = core.Bounds{MaxX: cfg.Mechanics.WorldWidth, MaxY: cfg.Mechanics.WorldHeight}
	if opts.ViewportW > 0 && opts.ViewportH > 0 {
		cfg.Camera.ViewportWidth, cfg.Camera.ViewportHeight = opts.ViewportW, opts.ViewportH
	}

	s := &Session{
		Scene:  sc,
		Config: cfg,
		Clock:  engine.NewManualScheduler(),
		logger: logger,
	}

	engOpts := []engine.Option{
		engine.WithScheduler(s.Clock),
		engine.WithLogger(logger),
		engine.WithBindings(bindings),
	}
	if sc != nil {
		engOpts = append(engOpts, engine.WithLevel(sc.Populate))
	}
	for _, fn := range opts.Observers {
		engOpts = append(engOpts, engine.WithObserver(fn))
	}
	s.Engine = engine.New(cfg.Mechanics, engOpts...)
	camOpts := []camera.Option{camera.WithLogger(logger)}
	if opts.Seed != 0 {
		camOpts = append(camOpts, camera.WithSeed(opts.Seed))
	}
	s.Camera = camera.NewController(cfg.Camera, camOpts...)
	s.focus()

	logger.Debug("session opened", "scene", s.SceneID(), "genre", cfg.Mechanics.Type)
	return s, nil
}

// SceneID returns the scene id, or the genre name for an empty world.
func (s *Session) SceneID() string {
	if s.Scene != nil {
		return s.Scene.ID()
	}
	return s.Config.Mechanics.Type.String()
}

// Title returns a display name.
func (s *Session) Title() string {
	if s.Scene != nil {
		return s.Scene.Title()
	}
	return s.Config.Mechanics.Type.Title()
}

// Start starts the engine and plays the scene intro, if any.
func (s *Session) Start() {
	s.Engine.Start()
	if s.Scene == nil {
		return
	}
	if kfs := s.Scene.Intro(); len(kfs) > 0 {
		s.intro = true
		s.Camera.PlayCinematic(kfs, s.endIntro)
	}
}

func (s *Session) endIntro() {
	s.intro = false
	s.Camera.StopCinematic()
	s.focus()
}

// SkipIntro ends a playing intro.
func (s *Session) SkipIntro() {
	if s.intro {
		s.endIntro()
	}
}

// InIntro reports whether the intro cinematic is playing.
func (s *Session) InIntro() bool {
	return s.intro
}

// focus snaps the camera onto the player.
func (s *Session) focus() {
	if s.Camera.Mode() != camera.ModeFollow {
		return
	}
	if p, ok := s.Engine.World().Position(mechanics.PlayerID); ok {
		s.Camera.SetPosition(p.X, p.Y)
	}
}

// Advance runs everything due at host time now: one engine frame, then the
// camera.
func (s *Session) Advance(now time.Duration) {
	dt := now - s.now
	if dt < 0 {
		dt = 0
	}
	s.now = now

	s.Clock.Tick(now)

	w := s.Engine.World()
	if p, ok := w.Position(mechanics.PlayerID); ok {
		v, _ := w.Velocity(mechanics.PlayerID)
		s.Camera.Follow(p.X, p.Y, v.X, v.Y)
	}
	s.Camera.Update(dt)
}

// Run advances n fixed frames past the current time.
func (s *Session) Run(n int) {
	for i := 0; i < n; i++ {
		s.Advance(s.now + Frame)
	}
}

// Now returns the host time of the last Advance.
func (s *Session) Now() time.Duration {
	return s.now
}

// Reset rebuilds the scene and recentres the camera.
func (s *Session) Reset() {
	s.Engine.Reset()
	s.focus()
}

// Close disposes the engine.
func (s *Session) Close() {
	s.Engine.Dispose()
}

// Snapshot is the serialisable state of a session.
type Snapshot struct {
	Scene  string              `json:"scene"`
	Genre  mechanics.Type      `json:"genre"`
	Status string              `json:"status"`
	Now    time.Duration       `json:"now"`
	World  physics.Snapshot    `json:"world"`
	Camera camera.Snapshot     `json:"camera"`
	State  mechanics.GameState `json:"state"`
}

// Snapshot captures world, camera and game state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Scene:  s.SceneID(),
		Genre:  s.Config.Mechanics.Type,
		Status: s.Engine.Status().String(),
		Now:    s.now,
		World:  s.Engine.World().Serialize(),
		Camera: s.Camera.Serialize(),
		State:  s.Engine.State(),
	}
}
