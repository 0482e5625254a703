package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// groundNormal is how far the contact normal must point up for a platform to
// count as supporting. The margin absorbs solver noise on sloped contacts.
const groundNormal = 0.5

// IsGrounded reports whether any platform is pushing the body upward.
// Unknown ids are never grounded.
func (w *World) IsGrounded(id string) bool {
	return w.touching(id, func(n cp.Vector) bool {
		return n.Y < -groundNormal
	}, BodyPlatform)
}

// IsTouchingWall reports whether a platform or obstacle is pushing the body
// sideways.
func (w *World) IsTouchingWall(id string) bool {
	return w.touching(id, func(n cp.Vector) bool {
		return math.Abs(n.X) > groundNormal
	}, BodyPlatform, BodyObstacle)
}

// touching queries the body against every body of the given types. The
// normal passed to match points from the other body towards id.
func (w *World) touching(id string, match func(cp.Vector) bool, types ...BodyType) bool {
	b, ok := w.Body(id)
	if !ok {
		return false
	}
	b.shape.CacheBB()
	for _, s := range w.slots {
		other := s.body
		if other == nil || other == b || other.IsSensor || !hasType(types, other.Type) {
			continue
		}
		if !other.shape.CacheBB().Intersects(b.shape.BB()) {
			continue
		}
		set := cp.ShapesCollide(other.shape, b.shape)
		if set.Count > 0 && match(set.Normal) {
			return true
		}
	}
	return false
}

func hasType(types []BodyType, t BodyType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
