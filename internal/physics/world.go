package physics

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/playforge/internal/core"
)

const (
	// stepsPerSecond is the baseline rate velocities are expressed against.
	stepsPerSecond = 60.0
	// gravityScale converts gravity units to px/s².
	gravityScale = 1000.0

	// BoundPrefix marks boundary walls created by CreateBounds.
	BoundPrefix = "__bound_"

	// collisionKind is shared by every shape so one handler sees all pairs.
	collisionKind cp.CollisionType = 1
)

// Config holds world-wide settings.
type Config struct {
	Gravity     core.Vec2     `json:"gravity" yaml:"gravity" toml:"gravity"`
	Width       float64       `json:"width" yaml:"width" toml:"width"`
	Height      float64       `json:"height" yaml:"height" toml:"height"`
	Timestep    time.Duration `json:"timestep" yaml:"timestep" toml:"timestep"`
	MaxSubsteps int           `json:"maxSubsteps" yaml:"max_substeps" toml:"max_substeps"`
	Iterations  int           `json:"iterations" yaml:"iterations" toml:"iterations"`
}

// DefaultConfig returns an 800x600 world with downward gravity stepped at 60 Hz.
func DefaultConfig() Config {
	return Config{
		Gravity:     core.V(0, 1),
		Width:       800,
		Height:      600,
		Timestep:    time.Second / 60,
		MaxSubsteps: 5,
		Iterations:  10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Timestep <= 0 {
		c.Timestep = d.Timestep
	}
	if c.MaxSubsteps <= 0 {
		c.MaxSubsteps = d.MaxSubsteps
	}
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	return c
}

type slot struct {
	gen  uint32
	body *Body
}

// World owns every simulated body. It is not safe for concurrent use.
type World struct {
	cfg    Config
	space  *cp.Space
	logger *log.Logger

	slots []slot
	free  []uint32
	index map[string]Handle

	// locked is non-zero while the solver is inside a step or a removal;
	// solver detaches requested meanwhile are queued in pending.
	locked  int
	pending []*Body

	subs    [numEvents][]*Subscription
	nextSub uint64

	clock clock
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// NewWorld creates an empty world.
func NewWorld(cfg Config, opts ...Option) *World {
	cfg = cfg.withDefaults()
	w := &World{
		cfg:    cfg,
		index:  make(map[string]Handle),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.space = cp.NewSpace()
	w.space.Iterations = uint(cfg.Iterations)
	w.space.SetGravity(toCP(cfg.Gravity.Scale(gravityScale)))
	w.installHandler()
	return w
}

// Config returns the world configuration.
func (w *World) Config() Config {
	return w.cfg
}

// CreatePlayer adds a dynamic, non-rotating player rectangle.
func (w *World) CreatePlayer(id string, x, y, width, height float64, opts ...BodyOption) *Body {
	base := defaultOptions(false)
	base.FixedRotation = true
	return w.addRect(id, BodyPlayer, x, y, width, height, buildOptions(base, opts))
}

// CreatePlatform adds a static platform rectangle.
func (w *World) CreatePlatform(id string, x, y, width, height float64, opts ...BodyOption) *Body {
	base := defaultOptions(true)
	base.Friction = 0.8
	return w.addRect(id, BodyPlatform, x, y, width, height, buildOptions(base, opts))
}

// CreateObstacle adds an obstacle rectangle, static unless overridden.
func (w *World) CreateObstacle(id string, x, y, width, height float64, opts ...BodyOption) *Body {
	base := defaultOptions(true)
	base.Friction = 0.5
	return w.addRect(id, BodyObstacle, x, y, width, height, buildOptions(base, opts))
}

// CreateCircle adds a dynamic circle.
func (w *World) CreateCircle(id string, x, y, radius float64, opts ...BodyOption) *Body {
	base := defaultOptions(false)
	base.Restitution = 0.3
	o := buildOptions(base, opts)
	body, shape, local := newCircleBody(x, y, radius, o)
	b := &Body{ID: id, Type: BodyDynamic, Shape: ShapeCircle, Radius: radius}
	return w.insert(b, body, shape, local, o)
}

// CreateProjectile adds a small dynamic circle that ignores gravity.
func (w *World) CreateProjectile(id string, x, y, radius float64, opts ...BodyOption) *Body {
	base := defaultOptions(false)
	base.GravityScale = 0
	base.FrictionAir = 0
	base.FixedRotation = true
	o := buildOptions(base, opts)
	body, shape, local := newCircleBody(x, y, radius, o)
	b := &Body{ID: id, Type: BodyProjectile, Shape: ShapeCircle, Radius: radius}
	return w.insert(b, body, shape, local, o)
}

// CreateTrigger adds a static sensor rectangle.
func (w *World) CreateTrigger(id string, x, y, width, height float64, opts ...BodyOption) *Body {
	base := defaultOptions(true)
	o := buildOptions(base, opts)
	o.IsSensor = true
	return w.addRect(id, BodyTrigger, x, y, width, height, o)
}

func (w *World) addRect(id string, t BodyType, x, y, width, height float64, o BodyOptions) *Body {
	body, shape, local := newRectBody(x, y, width, height, o)
	b := &Body{ID: id, Type: t, Shape: ShapeRect, Width: width, Height: height}
	return w.insert(b, body, shape, local, o)
}

// insert registers b in the arena and the solver. An existing body with the
// same id is removed first.
func (w *World) insert(b *Body, body *cp.Body, shape *cp.Shape, local []cp.Vector, o BodyOptions) *Body {
	if _, ok := w.index[b.ID]; ok {
		w.logger.Debug("replacing body", "id", b.ID)
		w.RemoveBody(b.ID)
	}

	b.IsStatic = o.IsStatic
	b.IsSensor = o.IsSensor
	b.UserData = o.UserData
	b.frictionAir = o.FrictionAir
	b.gravityScale = o.GravityScale
	b.local = local
	b.body = body
	b.shape = shape

	shape.SetFriction(o.Friction)
	shape.SetElasticity(o.Restitution)
	shape.SetSensor(o.IsSensor)
	shape.SetCollisionType(collisionKind)
	shape.UserData = b
	body.UserData = b

	if !o.IsStatic {
		body.SetVelocityUpdateFunc(func(cb *cp.Body, gravity cp.Vector, damping, dt float64) {
			d := damping * math.Pow(1-b.frictionAir, dt*stepsPerSecond)
			cp.BodyUpdateVelocity(cb, gravity.Mult(b.gravityScale), d, dt)
		})
	}

	w.space.AddBody(body)
	w.space.AddShape(shape)

	b.handle = w.alloc(b)
	w.index[b.ID] = b.handle
	w.logger.Debug("body created", "id", b.ID, "type", b.Type)
	return b
}

func (w *World) alloc(b *Body) Handle {
	if n := len(w.free); n > 0 {
		i := w.free[n-1]
		w.free = w.free[:n-1]
		w.slots[i].body = b
		return Handle{index: i, gen: w.slots[i].gen}
	}
	w.slots = append(w.slots, slot{gen: 1, body: b})
	return Handle{index: uint32(len(w.slots) - 1), gen: 1}
}

// RemoveBody detaches and forgets the body with the given id.
// Unknown ids are ignored. Safe to call from collision callbacks.
func (w *World) RemoveBody(id string) {
	h, ok := w.index[id]
	if !ok {
		return
	}
	b := w.slots[h.index].body
	delete(w.index, id)
	w.slots[h.index] = slot{gen: h.gen + 1}
	w.free = append(w.free, h.index)
	w.detach(b)
	w.logger.Debug("body removed", "id", id)
}

func (w *World) detach(b *Body) {
	if w.locked > 0 {
		w.pending = append(w.pending, b)
		return
	}
	w.detachNow(b)
	w.flushPending()
}

func (w *World) detachNow(b *Body) {
	w.locked++
	defer func() { w.locked-- }()
	if w.space.ContainsShape(b.shape) {
		w.space.RemoveShape(b.shape)
	}
	if w.space.ContainsBody(b.body) {
		w.space.RemoveBody(b.body)
	}
}

func (w *World) flushPending() {
	for len(w.pending) > 0 {
		next := w.pending[0]
		w.pending = w.pending[1:]
		w.detachNow(next)
	}
}

// CreateBounds surrounds the world with four static walls of the given
// thickness, placed just outside the world rectangle.
func (w *World) CreateBounds(padding float64) {
	if padding <= 0 {
		padding = 50
	}
	cw, ch := w.cfg.Width, w.cfg.Height
	w.CreatePlatform(BoundPrefix+"top", cw/2, -padding/2, cw+2*padding, padding)
	w.CreatePlatform(BoundPrefix+"bottom", cw/2, ch+padding/2, cw+2*padding, padding)
	w.CreatePlatform(BoundPrefix+"left", -padding/2, ch/2, padding, ch+2*padding)
	w.CreatePlatform(BoundPrefix+"right", cw+padding/2, ch/2, padding, ch+2*padding)
}

// IsBound reports whether id names a boundary wall.
func IsBound(id string) bool {
	return strings.HasPrefix(id, BoundPrefix)
}

// ClearBodies removes every body except boundary walls.
func (w *World) ClearBodies() {
	for _, b := range w.AllBodies() {
		if !IsBound(b.ID) {
			w.RemoveBody(b.ID)
		}
	}
}

// Clear removes every body, boundary walls included.
func (w *World) Clear() {
	for _, b := range w.AllBodies() {
		w.RemoveBody(b.ID)
	}
}

// Lookup resolves an id to its handle.
func (w *World) Lookup(id string) (Handle, bool) {
	h, ok := w.index[id]
	return h, ok
}

// Body returns the body with the given id.
func (w *World) Body(id string) (*Body, bool) {
	h, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.BodyByHandle(h)
}

// BodyByHandle resolves a handle. Stale handles resolve to nothing.
func (w *World) BodyByHandle(h Handle) (*Body, bool) {
	if h.gen == 0 || int(h.index) >= len(w.slots) {
		return nil, false
	}
	s := w.slots[h.index]
	if s.gen != h.gen || s.body == nil {
		return nil, false
	}
	return s.body, true
}

// AllBodies returns live bodies in arena order, boundary walls included.
func (w *World) AllBodies() []*Body {
	out := make([]*Body, 0, len(w.index))
	for _, s := range w.slots {
		if s.body != nil {
			out = append(out, s.body)
		}
	}
	return out
}

// BodiesOfType returns live bodies of type t in arena order.
func (w *World) BodiesOfType(t BodyType) []*Body {
	var out []*Body
	for _, s := range w.slots {
		if s.body != nil && s.body.Type == t {
			out = append(out, s.body)
		}
	}
	return out
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return len(w.index)
}

func (w *World) alive(b *Body) bool {
	got, ok := w.BodyByHandle(b.handle)
	return ok && got == b
}

// SetVelocity sets a body's velocity in pixels per step.
func (w *World) SetVelocity(id string, v core.Vec2) {
	if b, ok := w.Body(id); ok && !b.IsStatic {
		b.body.SetVelocityVector(toCP(v.Scale(stepsPerSecond)))
	}
}

// Velocity returns a body's velocity in pixels per step.
func (w *World) Velocity(id string) (core.Vec2, bool) {
	b, ok := w.Body(id)
	if !ok {
		return core.Vec2{}, false
	}
	return b.Velocity(), true
}

// SetPosition teleports a body's centre.
func (w *World) SetPosition(id string, p core.Vec2) {
	b, ok := w.Body(id)
	if !ok {
		return
	}
	b.body.SetPosition(toCP(p))
	b.shape.CacheBB()
}

// Position returns a body's centre.
func (w *World) Position(id string) (core.Vec2, bool) {
	b, ok := w.Body(id)
	if !ok {
		return core.Vec2{}, false
	}
	return b.Position(), true
}

// Angle returns a body's rotation in radians.
func (w *World) Angle(id string) (float64, bool) {
	b, ok := w.Body(id)
	if !ok {
		return 0, false
	}
	return b.Angle(), true
}
