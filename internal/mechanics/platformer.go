package mechanics

import (
	"fmt"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// platformer sets horizontal speed straight from input and jumps from the
// ground, with one weaker air jump when DoubleJump is on. The air jump is
// restored only by touching the ground; WallJump is not consulted.
type platformer struct {
	base
}

func (p *platformer) Type() Type { return Platformer }

func (p *platformer) Initialize(w *physics.World, cfg Config) {
	p.init(cfg)
	p.spawnGround(w)
	p.spawnPlayer(w)
}

func (p *platformer) Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState {
	body, ok := w.Body(PlayerID)
	if !ok {
		return track(w, st, dt)
	}
	cfg := p.cfg
	v := body.Velocity()

	st.IsGrounded = w.IsGrounded(PlayerID)
	st.IsTouchingWall = w.IsTouchingWall(PlayerID)
	if st.IsGrounded {
		st.HasDoubleJump = cfg.DoubleJump
	}

	if x := axisX(in); x != 0 {
		v.X = x * cfg.MoveSpeed
	} else {
		v.X = decay(v.X, idleDecay, dt)
	}

	if in.Pressed(core.ActionJump) {
		switch {
		case st.IsGrounded:
			v.Y = -cfg.JumpForce
		case st.HasDoubleJump:
			v.Y = -cfg.JumpForce * doubleJumpFactor
			st.HasDoubleJump = false
		}
	}

	w.SetVelocity(PlayerID, clampFall(v, cfg.MaxFallSpeed))
	return track(w, st, dt)
}

func (p *platformer) RenderDebug(dst *core.Screen, w *physics.World, st GameState) {
	p.base.RenderDebug(dst, w, st)
	dst.DrawTextColored(0, 3, fmt.Sprintf("jump %.0f fall<=%.0f", p.cfg.JumpForce, p.cfg.MaxFallSpeed), core.ColorGray)
}
