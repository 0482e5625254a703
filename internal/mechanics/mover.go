package mechanics

import (
	"time"

	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// mover drives the player along the 2D movement vector at a fixed speed,
// with no gravity. It serves top-down and fps, and the shooter builds on it.
type mover struct {
	base
	kind Type
}

func (m *mover) Type() Type { return m.kind }

func (m *mover) Initialize(w *physics.World, cfg Config) {
	m.init(cfg)
	m.spawnPlayer(w)
}

func (m *mover) Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState {
	m.steer(w, in, &st)
	return track(w, st, dt)
}

func (m *mover) steer(w *physics.World, in input.State, st *GameState) {
	if _, ok := w.Body(PlayerID); !ok {
		return
	}
	w.SetVelocity(PlayerID, in.Movement.Scale(m.cfg.MoveSpeed))
	st.IsTouchingWall = w.IsTouchingWall(PlayerID)
}
