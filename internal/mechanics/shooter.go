package mechanics

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

const (
	projectileRadius = 4
	// TargetPrefix marks trigger bodies that projectiles destroy for points.
	TargetPrefix = "target"
	targetScore  = 25
)

// shooter moves like top-down and fires projectiles along the last movement
// direction while action is held. Projectiles expire after their lifetime,
// on leaving the world, or on hitting anything solid.
type shooter struct {
	mover

	facing   core.Vec2
	fired    bool
	lastShot time.Duration
	serial   int
	shots    map[string]time.Duration
	hits     int
	sub      *physics.Subscription
}

func (s *shooter) Initialize(w *physics.World, cfg Config) {
	s.mover.Initialize(w, cfg)
	s.facing = core.V(0, -1)
	s.fired = false
	s.lastShot = 0
	s.serial = 0
	s.hits = 0
	s.shots = make(map[string]time.Duration)
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	s.sub = w.OnCollision(physics.CollisionStart, func(c physics.Collision) { s.onHit(w, c) })
}

func (s *shooter) onHit(w *physics.World, c physics.Collision) {
	shot := c.A
	if _, ok := s.shots[shot.ID]; !ok {
		shot = c.B
		if _, ok := s.shots[shot.ID]; !ok {
			return
		}
	}
	other := c.Other(shot)
	switch {
	case other.Type == physics.BodyPlayer:
		return
	case other.Type == physics.BodyTrigger:
		if !strings.HasPrefix(other.ID, TargetPrefix) {
			return
		}
		w.RemoveBody(other.ID)
		s.hits++
	}
	s.expire(w, shot.ID)
}

func (s *shooter) expire(w *physics.World, id string) {
	delete(s.shots, id)
	w.RemoveBody(id)
}

func (s *shooter) Update(w *physics.World, in input.State, st GameState, dt time.Duration) GameState {
	s.steer(w, in, &st)
	if in.Movement.Len() > 0 {
		s.facing = in.Movement.Normalize()
	}

	if in.Held(core.ActionAction) && (!s.fired || st.Time-s.lastShot >= s.cfg.FireCooldown) {
		s.fire(w, st.Time)
	}

	bounds := core.Bounds{MaxX: s.cfg.WorldWidth, MaxY: s.cfg.WorldHeight}
	for id, born := range s.shots {
		p, ok := w.Position(id)
		if !ok || st.Time-born >= s.cfg.ProjectileLifetime || !inside(bounds, p) {
			s.expire(w, id)
		}
	}

	st.Score += s.hits * targetScore
	s.hits = 0
	return track(w, st, dt)
}

func (s *shooter) fire(w *physics.World, now time.Duration) {
	p, ok := w.Position(PlayerID)
	if !ok {
		return
	}
	reach := max(s.cfg.PlayerWidth, s.cfg.PlayerHeight)/2 + projectileRadius + 2
	at := p.Add(s.facing.Scale(reach))

	s.serial++
	id := fmt.Sprintf("projectile-%d", s.serial)
	w.CreateProjectile(id, at.X, at.Y, projectileRadius)
	w.SetVelocity(id, s.facing.Scale(s.cfg.ProjectileSpeed))

	s.shots[id] = now
	s.fired = true
	s.lastShot = now
}

// Projectiles returns the number of live projectiles.
func (s *shooter) Projectiles() int {
	return len(s.shots)
}

func inside(b core.Bounds, p core.Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}
