// Package physics wraps a Chipmunk2D space in a gameplay-oriented world:
// string-addressed bodies stored in a generational arena, a fixed-timestep
// accumulator, grounded and wall queries, and collision event channels.
//
// Velocities cross the API in pixels per 60 Hz step and gravity in units
// where 1 equals 1000 px/s². The solver itself works in pixels per second.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/playforge/internal/core"
)

// BodyType classifies a body for gameplay rules and rendering.
type BodyType uint8

const (
	BodyPlayer BodyType = iota
	BodyPlatform
	BodyObstacle
	BodyProjectile
	BodyTrigger
	BodyDynamic
)

var bodyTypeNames = [...]string{"player", "platform", "obstacle", "projectile", "trigger", "dynamic"}

// String returns the lowercase type name.
func (t BodyType) String() string {
	if int(t) < len(bodyTypeNames) {
		return bodyTypeNames[t]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t BodyType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseBodyType maps a name back to a BodyType.
func ParseBodyType(s string) (BodyType, bool) {
	for i, n := range bodyTypeNames {
		if n == s {
			return BodyType(i), true
		}
	}
	return 0, false
}

// ShapeKind is the geometry a body was created with.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	if k == ShapeCircle {
		return []byte("circle"), nil
	}
	return []byte("rect"), nil
}

// Handle addresses a body slot in the arena. A handle stays valid until the
// body it names is removed; the slot's generation then advances so stale
// handles never resolve to a newer body.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle, which never resolves.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// circleSegments is the vertex count used to expose circles as polygons.
const circleSegments = 16

// Body is a simulated object owned by a World.
type Body struct {
	ID       string
	Type     BodyType
	Shape    ShapeKind
	Width    float64 // rectangles
	Height   float64 // rectangles
	Radius   float64 // circles
	IsStatic bool
	IsSensor bool
	UserData any

	handle       Handle
	frictionAir  float64
	gravityScale float64
	local        []cp.Vector
	body         *cp.Body
	shape        *cp.Shape
}

// Handle returns the arena handle of b.
func (b *Body) Handle() Handle {
	return b.handle
}

// Position returns the centre of the body.
func (b *Body) Position() core.Vec2 {
	return fromCP(b.body.Position())
}

// Velocity returns the body velocity in pixels per step.
func (b *Body) Velocity() core.Vec2 {
	return fromCP(b.body.Velocity()).Scale(1 / stepsPerSecond)
}

// Angle returns the rotation in radians.
func (b *Body) Angle() float64 {
	return b.body.Angle()
}

// Vertices returns the body outline in world space.
func (b *Body) Vertices() []core.Vec2 {
	out := make([]core.Vec2, len(b.local))
	for i, v := range b.local {
		out[i] = fromCP(b.body.LocalToWorld(v))
	}
	return out
}

// Bounds returns the world-space bounding box of the outline.
func (b *Body) Bounds() core.Bounds {
	return core.BoundsOf(b.Vertices())
}

// BodyOptions tunes a body at creation.
type BodyOptions struct {
	Friction     float64
	Restitution  float64
	FrictionAir  float64
	Density      float64
	GravityScale float64
	Angle        float64
	IsStatic     bool
	IsSensor     bool
	// FixedRotation gives the body infinite inertia.
	FixedRotation bool
	UserData      any
}

// BodyOption mutates BodyOptions.
type BodyOption func(*BodyOptions)

// WithFriction sets surface friction.
func WithFriction(f float64) BodyOption {
	return func(o *BodyOptions) { o.Friction = f }
}

// WithRestitution sets bounciness.
func WithRestitution(r float64) BodyOption {
	return func(o *BodyOptions) { o.Restitution = r }
}

// WithFrictionAir sets the fraction of velocity lost per 60 Hz step.
func WithFrictionAir(f float64) BodyOption {
	return func(o *BodyOptions) { o.FrictionAir = f }
}

// WithDensity sets mass per square pixel.
func WithDensity(d float64) BodyOption {
	return func(o *BodyOptions) { o.Density = d }
}

// WithGravityScale scales world gravity for this body only.
func WithGravityScale(s float64) BodyOption {
	return func(o *BodyOptions) { o.GravityScale = s }
}

// WithAngle sets the initial rotation in radians.
func WithAngle(a float64) BodyOption {
	return func(o *BodyOptions) { o.Angle = a }
}

// Static overrides whether the body is immovable.
func Static(static bool) BodyOption {
	return func(o *BodyOptions) { o.IsStatic = static }
}

// Sensor marks the body as a sensor.
func Sensor() BodyOption {
	return func(o *BodyOptions) { o.IsSensor = true }
}

// FixedRotation prevents the body from rotating.
func FixedRotation() BodyOption {
	return func(o *BodyOptions) { o.FixedRotation = true }
}

// WithUserData attaches opaque data to the body.
func WithUserData(v any) BodyOption {
	return func(o *BodyOptions) { o.UserData = v }
}

func defaultOptions(static bool) BodyOptions {
	return BodyOptions{
		Friction:     0.1,
		FrictionAir:  0.01,
		Density:      0.001,
		GravityScale: 1,
		IsStatic:     static,
	}
}

func buildOptions(base BodyOptions, opts []BodyOption) BodyOptions {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// newRectBody builds the solver body and shape for an axis-aligned rectangle
// centred on (x, y). Static bodies are kinematic so they can still be moved.
func newRectBody(x, y, w, h float64, o BodyOptions) (*cp.Body, *cp.Shape, []cp.Vector) {
	var body *cp.Body
	if o.IsStatic {
		body = cp.NewKinematicBody()
	} else {
		mass := math.Max(o.Density*w*h, 1e-6)
		moment := cp.MomentForBox(mass, w, h)
		if o.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetAngle(o.Angle)

	shape := cp.NewBox(body, w, h, 0)
	hw, hh := w/2, h/2
	local := []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	return body, shape, local
}

func newCircleBody(x, y, r float64, o BodyOptions) (*cp.Body, *cp.Shape, []cp.Vector) {
	var body *cp.Body
	if o.IsStatic {
		body = cp.NewKinematicBody()
	} else {
		mass := math.Max(o.Density*math.Pi*r*r, 1e-6)
		moment := cp.MomentForCircle(mass, 0, r, cp.Vector{})
		if o.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetAngle(o.Angle)

	shape := cp.NewCircle(body, r, cp.Vector{})
	local := make([]cp.Vector, circleSegments)
	for i := range local {
		a := 2 * math.Pi * float64(i) / circleSegments
		local[i] = cp.Vector{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return body, shape, local
}

func fromCP(v cp.Vector) core.Vec2 {
	return core.Vec2{X: v.X, Y: v.Y}
}

func toCP(v core.Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}
