package input

import (
	"math"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
)

type touchZone uint8

const (
	zoneNone touchZone = iota
	zoneJoystick
	zoneButton
)

// touchTracker follows active contacts and the single-touch gesture.
type touchTracker struct {
	points     []TouchPoint
	primary    TouchPoint
	hasPrimary bool
	startedAt  time.Duration
	zone       touchZone
	pinch      PinchState
	swipe      SwipeState
}

func (t *touchTracker) find(id int) int {
	for i, p := range t.points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (t *touchTracker) takeSwipe() SwipeState {
	s := t.swipe
	t.swipe = SwipeState{}
	return s
}

func (t *touchTracker) snapshot(swipe SwipeState) TouchState {
	return TouchState{
		Active:     append([]TouchPoint(nil), t.points...),
		Primary:    t.primary,
		HasPrimary: t.hasPrimary,
		Pinch:      t.pinch,
		Swipe:      swipe,
	}
}

func (m *Manager) onTouchStart(ev Event) {
	if !m.enabled {
		return
	}
	g := &m.gesture
	for _, c := range ev.Changed {
		if g.find(c.ID) >= 0 {
			continue
		}
		pos := core.V(c.X, c.Y)
		g.points = append(g.points, TouchPoint{ID: c.ID, Start: pos, Pos: pos})
	}

	switch len(g.points) {
	case 1:
		g.primary = g.points[0]
		g.hasPrimary = true
		g.startedAt = ev.Time
		w, _ := m.surfaceSize()
		if g.primary.Pos.X < w/2 {
			g.zone = zoneJoystick
			m.joystickFrom(g.primary)
		} else {
			g.zone = zoneButton
			m.touchActs = m.touchActs.With(core.ActionAction)
		}
	case 2:
		a, b := g.points[0].Pos, g.points[1].Pos
		g.pinch = PinchState{
			Active:          true,
			InitialDistance: a.Dist(b),
			Scale:           1,
			Center:          a.Add(b).Scale(0.5),
		}
	}
}

func (m *Manager) onTouchMove(ev Event) {
	if !m.enabled {
		return
	}
	g := &m.gesture
	for _, c := range ev.Changed {
		i := g.find(c.ID)
		if i < 0 {
			continue
		}
		g.points[i].Pos = core.V(c.X, c.Y)
		if g.hasPrimary && c.ID == g.primary.ID {
			g.primary.Pos = g.points[i].Pos
			if g.zone == zoneJoystick {
				m.joystickFrom(g.primary)
			}
		}
	}

	if g.pinch.Active && len(g.points) == 2 {
		a, b := g.points[0].Pos, g.points[1].Pos
		if g.pinch.InitialDistance > 0 {
			g.pinch.Scale = a.Dist(b) / g.pinch.InitialDistance
		}
		g.pinch.Center = a.Add(b).Scale(0.5)
	}
}

func (m *Manager) onTouchEnd(ev Event) {
	if !m.enabled {
		return
	}
	g := &m.gesture
	for _, c := range ev.Changed {
		i := g.find(c.ID)
		if i < 0 {
			continue
		}
		g.points = append(g.points[:i], g.points[i+1:]...)
		if !g.hasPrimary || c.ID != g.primary.ID {
			continue
		}

		g.primary.Pos = core.V(c.X, c.Y)
		switch g.zone {
		case zoneButton:
			m.touchActs = m.touchActs.Without(core.ActionAction)
		case zoneJoystick:
			m.joystick = JoystickState{}
			m.touchActs = m.touchActs.
				Without(core.ActionMoveLeft).Without(core.ActionMoveRight).
				Without(core.ActionMoveUp).Without(core.ActionMoveDown)
		}
		if g.zone != zoneJoystick && len(g.points) == 0 {
			m.detectSwipe(g.primary, ev.Time-g.startedAt)
		}
		g.hasPrimary = false
		g.zone = zoneNone
	}

	if len(g.points) < 2 {
		g.pinch = PinchState{}
	}
	if len(g.points) == 0 {
		g.points = nil
		g.primary = TouchPoint{}
		m.touchActs = 0
		m.joystick = JoystickState{}
	}
}

// detectSwipe emits a one-frame press along the dominant axis of a fast,
// long single-touch gesture. Upward swipes jump.
func (m *Manager) detectSwipe(p TouchPoint, elapsed time.Duration) {
	d := p.Pos.Sub(p.Start)
	dist := d.Len()
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	velocity := dist / ms
	if dist <= SwipeMinDistance || velocity <= SwipeMinVelocity {
		return
	}

	var dir string
	var action core.Action
	switch {
	case math.Abs(d.X) > math.Abs(d.Y) && d.X > 0:
		dir, action = "right", core.ActionMoveRight
	case math.Abs(d.X) > math.Abs(d.Y):
		dir, action = "left", core.ActionMoveLeft
	case d.Y < 0:
		dir, action = "up", core.ActionJump
	default:
		dir, action = "down", core.ActionMoveDown
	}

	m.pulse = m.pulse.With(action)
	m.gesture.swipe = SwipeState{Detected: true, Direction: dir, Distance: dist, Velocity: velocity}
	m.logger.Debug("swipe", "direction", dir, "distance", dist, "velocity", velocity)
}
