package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/playforge/internal/core"
)

// EventKind selects a collision channel.
type EventKind uint8

const (
	// CollisionStart fires on the first step two bodies touch.
	CollisionStart EventKind = iota
	// CollisionActive fires on every later step they keep touching.
	CollisionActive
	// CollisionEnd fires when they separate or one is removed.
	CollisionEnd

	numEvents
)

// String returns the channel name.
func (k EventKind) String() string {
	switch k {
	case CollisionStart:
		return "start"
	case CollisionActive:
		return "active"
	case CollisionEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Collision describes one contacting pair.
type Collision struct {
	A, B *Body
	// Normal points from A to B.
	Normal core.Vec2
}

// Other returns the body of the pair that is not b, or nil if b is not in it.
func (c Collision) Other(b *Body) *Body {
	switch b {
	case c.A:
		return c.B
	case c.B:
		return c.A
	default:
		return nil
	}
}

// CollisionFunc receives collision events synchronously inside the step.
type CollisionFunc func(Collision)

// Subscription is returned by OnCollision.
type Subscription struct {
	w    *World
	kind EventKind
	id   uint64
	fn   CollisionFunc
	done bool
}

// Unsubscribe removes the callback. Calls after the first are no-ops.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.done {
		return
	}
	s.done = true
	list := s.w.subs[s.kind]
	for i, other := range list {
		if other == s {
			s.w.subs[s.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// OnCollision registers fn on the given channel.
func (w *World) OnCollision(kind EventKind, fn CollisionFunc) *Subscription {
	w.nextSub++
	s := &Subscription{w: w, kind: kind, id: w.nextSub, fn: fn}
	if kind < numEvents {
		w.subs[kind] = append(w.subs[kind], s)
	} else {
		s.done = true
	}
	return s
}

// Subscribers returns the number of callbacks on a channel.
func (w *World) Subscribers(kind EventKind) int {
	if kind >= numEvents {
		return 0
	}
	return len(w.subs[kind])
}

func (w *World) installHandler() {
	h := w.space.NewCollisionHandler(collisionKind, collisionKind)
	h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		w.dispatch(CollisionStart, arb)
		return true
	}
	h.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		if !arb.IsFirstContact() {
			w.dispatch(CollisionActive, arb)
		}
		return true
	}
	h.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		w.dispatch(CollisionEnd, arb)
	}
}

func (w *World) dispatch(kind EventKind, arb *cp.Arbiter) {
	if len(w.subs[kind]) == 0 {
		return
	}
	sa, sb := arb.Shapes()
	a, okA := sa.UserData.(*Body)
	b, okB := sb.UserData.(*Body)
	if !okA || !okB || (a.IsStatic && b.IsStatic) {
		return
	}
	// Bodies removed earlier in this step are already forgotten.
	if kind != CollisionEnd && (!w.alive(a) || !w.alive(b)) {
		return
	}

	ev := Collision{A: a, B: b, Normal: fromCP(arb.Normal())}
	subs := append([]*Subscription(nil), w.subs[kind]...)
	for _, s := range subs {
		if !s.done {
			s.fn(ev)
		}
	}
}
