package mechanics

import (
	"math"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// thirdPerson eases horizontal speed toward the requested speed instead of
// setting it, and eases back to rest when idle. It jumps from the ground
// only.
type thirdPerson struct {
	base
}

func (t *thirdPerson) Type() Type { return ThirdPerson }

func (t *thirdPerson) Initialize(w *physics.World, cfg Config) {
	t.init(cfg)
	t.spawnGround(w)
	t.spawnPlayer(w)
}

func (t *thirdPerson) Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState {
	body, ok := w.Body(PlayerID)
	if !ok {
		return track(w, st, dt)
	}
	cfg := t.cfg
	v := body.Velocity()
	st.IsGrounded = w.IsGrounded(PlayerID)
	st.IsTouchingWall = w.IsTouchingWall(PlayerID)

	steps := float64(dt) / float64(frame)
	if x := axisX(in); x != 0 {
		v.X = approach(v.X, x*cfg.MoveSpeed, cfg.Acceleration, steps)
	} else {
		v.X = approach(v.X, 0, cfg.Deceleration, steps)
	}

	if st.IsGrounded && in.Pressed(core.ActionJump) {
		v.Y = -cfg.JumpForce
	}

	w.SetVelocity(PlayerID, clampFall(v, cfg.MaxFallSpeed))
	return track(w, st, dt)
}

// approach moves v toward target by rate per step, compounded over steps.
func approach(v, target, rate, steps float64) float64 {
	k := 1 - math.Pow(1-rate, steps)
	return v + (target-v)*k
}
