package mechanics

import (
	"time"

	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// puzzle only actuates the horizontal axis. Gravity is light and vertical
// motion is left entirely to the world.
type puzzle struct {
	base
}

func (p *puzzle) Type() Type { return Puzzle }

func (p *puzzle) Initialize(w *physics.World, cfg Config) {
	p.init(cfg)
	p.spawnGround(w)
	p.spawnPlayer(w)
}

func (p *puzzle) Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState {
	body, ok := w.Body(PlayerID)
	if !ok {
		return track(w, st, dt)
	}
	v := body.Velocity()
	if x := axisX(in); x != 0 {
		v.X = x * p.cfg.MoveSpeed
	} else {
		v.X = decay(v.X, idleDecay, dt)
	}
	w.SetVelocity(PlayerID, v)
	st.IsGrounded = w.IsGrounded(PlayerID)
	st.IsTouchingWall = w.IsTouchingWall(PlayerID)
	return track(w, st, dt)
}
