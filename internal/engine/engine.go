// Package engine runs one game: it owns a physics world, an input manager
// and a genre template, and drives them in a fixed per-frame order
// (input snapshot, physics step, template update) from host frame callbacks.
package engine

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
)

const (
	// CollectiblePrefix marks trigger bodies the player picks up.
	CollectiblePrefix = "collectible"
	// GoalID is the trigger that ends the game when the player reaches it.
	GoalID = "goal"

	// CollectibleScore is added per pickup.
	CollectibleScore = 10
)

// Status is the outer loop state.
type Status uint8

const (
	Stopped Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// LevelFunc populates a world with level geometry. It runs after the
// template's Initialize on construction and on every reset.
type LevelFunc func(w *physics.World, cfg mechanics.Config)

// Frame describes one completed frame.
type Frame struct {
	Now     time.Duration
	Delta   time.Duration
	Steps   int
	Elapsed time.Duration // wall time spent inside the frame
	Status  Status
	State   mechanics.GameState
}

// FrameObserver is told about every frame after it completes.
type FrameObserver func(Frame)

// Engine is the single owner of one game. It is not safe for concurrent
// use; hosts call it from their frame loop only.
type Engine struct {
	cfg    mechanics.Config
	world  *physics.World
	input  *input.Manager
	tpl    mechanics.Template
	state  mechanics.GameState
	status Status
	logger *log.Logger

	sched     Scheduler
	pending   FrameID
	scheduled bool
	last      time.Duration
	primed    bool

	level     LevelFunc
	observers []FrameObserver
	bindings  input.Bindings

	sub        *physics.Subscription
	attachment *input.Attachment
	disposed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the frame scheduler. The default is a ManualScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithLogger sets the logger shared by the engine, its world and input.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithLevel sets the level populate hook.
func WithLevel(fn LevelFunc) Option {
	return func(e *Engine) { e.level = fn }
}

// WithObserver adds a frame observer.
func WithObserver(fn FrameObserver) Option {
	return func(e *Engine) { e.observers = append(e.observers, fn) }
}

// WithBindings overrides the genre's key bindings.
func WithBindings(b input.Bindings) Option {
	return func(e *Engine) { e.bindings = b }
}

// New builds a stopped engine for cfg. An unknown genre runs as a
// platformer.
func New(cfg mechanics.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.WithDefaults(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = NewManualScheduler()
	}
	if e.bindings == nil {
		e.bindings = e.cfg.Type.Bindings()
	}

	e.world = physics.NewWorld(e.cfg.World(), physics.WithLogger(e.logger))
	e.world.CreateBounds(0)
	e.input = input.NewManager(e.bindings, input.WithLogger(e.logger))
	e.tpl = e.cfg.Type.Template()
	e.populate()

	e.logger.Debug("engine created", "type", e.cfg.Type, "bodies", e.world.Len())
	return e
}

// populate builds fresh game state and bodies on a world holding only
// boundary walls.
func (e *Engine) populate() {
	e.state = mechanics.InitialState(e.cfg)
	e.tpl.Initialize(e.world, e.cfg)
	if e.level != nil {
		e.level(e.world, e.cfg)
	}
	e.sub.Unsubscribe()
	e.sub = e.world.OnCollision(physics.CollisionStart, e.onCollision)
}

func (e *Engine) onCollision(c physics.Collision) {
	trigger, other := c.A, c.B
	if trigger.Type != physics.BodyTrigger {
		trigger, other = c.B, c.A
	}
	if trigger.Type != physics.BodyTrigger || other.Type != physics.BodyPlayer {
		return
	}

	switch {
	case strings.HasPrefix(trigger.ID, CollectiblePrefix):
		e.state.Score += CollectibleScore
		e.state.Collectibles++
		e.world.RemoveBody(trigger.ID)
		e.logger.Debug("collected", "id", trigger.ID, "score", e.state.Score)
	case trigger.ID == GoalID:
		if !e.state.IsGameOver {
			e.logger.Info("goal reached", "score", e.state.Score, "time", e.state.Time)
		}
		e.state.IsGameOver = true
	}
}

// Start begins requesting frames. It is a no-op unless the engine is
// stopped.
func (e *Engine) Start() {
	if e.disposed || e.status != Stopped {
		return
	}
	e.status = Running
	e.primed = false
	e.world.Resume()
	e.state.IsPaused = false
	e.schedule()
	e.logger.Info("engine started", "type", e.cfg.Type)
}

// Stop cancels the pending frame and freezes the world clock. A frame
// already in progress completes.
func (e *Engine) Stop() {
	if e.status == Stopped {
		return
	}
	if e.scheduled {
		e.sched.CancelFrame(e.pending)
		e.scheduled = false
	}
	e.status = Stopped
	e.world.Pause()
	e.logger.Info("engine stopped")
}

// Pause freezes physics and templates. Frames keep running so input can
// resume the game.
func (e *Engine) Pause() {
	if e.status != Running {
		return
	}
	e.status = Paused
	e.world.Pause()
	e.state.IsPaused = true
	e.logger.Debug("engine paused")
}

// Resume continues a paused game.
func (e *Engine) Resume() {
	if e.status != Paused {
		return
	}
	e.status = Running
	e.world.Resume()
	e.state.IsPaused = false
	e.logger.Debug("engine resumed")
}

// Reset clears every non-boundary body, rebuilds game state from the config
// and re-runs the template and level setup. The loop status is unchanged,
// so a paused engine stays paused.
func (e *Engine) Reset() {
	if e.disposed {
		return
	}
	e.world.ClearBodies()
	e.populate()
	e.state.IsPaused = e.status == Paused
	e.logger.Debug("engine reset", "bodies", e.world.Len())
}

// Dispose stops the engine, releases input listeners and empties the world.
// A disposed engine cannot be restarted.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.Stop()
	e.Detach()
	e.sub.Unsubscribe()
	e.world.Clear()
	e.input.Reset()
	e.observers = nil
	e.disposed = true
}

// Attach binds input to a host surface and keyboard target.
func (e *Engine) Attach(surface input.Surface, keyboard input.EventTarget) {
	if e.disposed {
		return
	}
	e.attachment = e.input.Attach(surface, keyboard)
}

// Detach releases input listeners.
func (e *Engine) Detach() {
	if e.attachment != nil {
		e.attachment.Release()
		e.attachment = nil
	}
}

// schedule requests the next frame. At most one frame is ever outstanding.
func (e *Engine) schedule() {
	if e.scheduled {
		return
	}
	e.pending = e.sched.RequestFrame(e.frame)
	e.scheduled = true
}

func (e *Engine) frame(now time.Duration) {
	e.scheduled = false
	if e.status == Stopped {
		return
	}
	began := time.Now()

	var dt time.Duration
	if e.primed {
		dt = now - e.last
	}
	e.last = now
	e.primed = true

	e.input.Update()
	in := e.input.State()

	if in.Pressed(core.ActionPause) {
		if e.status == Paused {
			e.Resume()
		} else {
			e.Pause()
		}
	}
	if in.Pressed(core.ActionReset) {
		e.Reset()
	}

	steps := 0
	if e.status == Running {
		steps = e.world.Update(now)
		e.state = e.tpl.Update(e.world, in, e.state, dt)
	}

	if len(e.observers) > 0 {
		f := Frame{
			Now:     now,
			Delta:   dt,
			Steps:   steps,
			Elapsed: time.Since(began),
			Status:  e.status,
			State:   e.state,
		}
		for _, fn := range e.observers {
			fn(f)
		}
	}

	if e.status != Stopped {
		e.schedule()
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() mechanics.Config {
	return e.cfg
}

// World returns the physics world for rendering and serialization.
func (e *Engine) World() *physics.World {
	return e.world
}

// Input returns the input manager.
func (e *Engine) Input() *input.Manager {
	return e.input
}

// Template returns the active template.
func (e *Engine) Template() mechanics.Template {
	return e.tpl
}

// State returns the current game state.
func (e *Engine) State() mechanics.GameState {
	return e.state
}

// Status returns the loop status.
func (e *Engine) Status() Status {
	return e.status
}

// Disposed reports whether Dispose has run.
func (e *Engine) Disposed() bool {
	return e.disposed
}
