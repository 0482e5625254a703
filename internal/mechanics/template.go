package mechanics

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// PlayerID is the id every template gives the player body.
const PlayerID = "player"

// frame is the step length speeds are tuned for.
const frame = time.Second / 60

const (
	idleDecay        = 0.8 // horizontal speed kept per step with no input
	doubleJumpFactor = 0.8
	stickDeadZone    = 0.1
)

// Template is one genre's rules.
type Template interface {
	// Type identifies the genre.
	Type() Type

	// Initialize creates the bodies the genre needs, the player included.
	// It is called on construction and again after every reset, on a world
	// that holds nothing but boundary walls.
	Initialize(w *physics.World, cfg Config)

	// Update maps one input snapshot onto the world, after the world has
	// stepped for this frame, and returns the next state.
	Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState
}

// DebugRenderer is implemented by templates that can annotate a frame.
type DebugRenderer interface {
	RenderDebug(dst *core.Screen, w *physics.World, st GameState)
}

// base carries what every template shares.
type base struct {
	cfg Config
}

func (b *base) init(cfg Config) {
	b.cfg = cfg
}

func (b *base) spawnPlayer(w *physics.World) {
	c := b.cfg
	w.CreatePlayer(PlayerID, c.Start.X, c.Start.Y, c.PlayerWidth, c.PlayerHeight,
		physics.WithFriction(c.Friction),
		physics.WithFrictionAir(c.FrictionAir),
	)
}

// spawnGround lays a platform along the bottom of the world.
func (b *base) spawnGround(w *physics.World) {
	c := b.cfg
	w.CreatePlatform("ground", c.WorldWidth/2, c.WorldHeight-20, c.WorldWidth, 40)
}

// RenderDebug writes player state into the top-left corner.
func (b *base) RenderDebug(dst *core.Screen, w *physics.World, st GameState) {
	lines := []string{
		fmt.Sprintf("%s  bodies:%d", b.cfg.Type, w.Len()),
		fmt.Sprintf("pos %.0f,%.0f  vel %.1f,%.1f", st.PlayerPosition.X, st.PlayerPosition.Y, st.PlayerVelocity.X, st.PlayerVelocity.Y),
		fmt.Sprintf("ground:%t wall:%t dbl:%t", st.IsGrounded, st.IsTouchingWall, st.HasDoubleJump),
	}
	for i, l := range lines {
		dst.DrawTextColored(0, i, l, core.ColorGray)
	}
}

// track copies the player body into st and advances the clock.
func track(w *physics.World, st GameState, dt time.Duration) GameState {
	if b, ok := w.Body(PlayerID); ok {
		st.PlayerPosition = b.Position()
		st.PlayerVelocity = b.Velocity()
	}
	st.Time += dt
	return st
}

// axisX returns horizontal intent in [-1, 1]. The virtual stick wins over
// the keyboard while it is deflected.
func axisX(in input.State) float64 {
	if in.Joystick.Active && in.Joystick.Magnitude > stickDeadZone {
		return core.ClampF(in.Joystick.X, -1, 1)
	}
	x := 0.0
	if in.Held(core.ActionMoveLeft) {
		x--
	}
	if in.Held(core.ActionMoveRight) {
		x++
	}
	return x
}

// decay scales v by the per-step factor f over dt.
func decay(v, f float64, dt time.Duration) float64 {
	return v * math.Pow(f, float64(dt)/float64(frame))
}

func clampFall(v core.Vec2, max float64) core.Vec2 {
	if max > 0 && v.Y > max {
		v.Y = max
	}
	return v
}
