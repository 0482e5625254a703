// Package camera implements a 2D camera with static, follow, cinematic and
// free modes, smoothing, dead-zone following with look-ahead, screen shake
// and keyframed cinematic playback.
package camera

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/playforge/internal/core"
)

// baselineFrame is the frame time smoothing factors are tuned for.
const baselineFrame = 16670 * time.Microsecond

const (
	shakeDecay = 0.9
	shakeFloor = 0.1
	// lookAheadSpeed is the speed at which look-ahead reaches full length.
	lookAheadSpeed = 5.0
)

// Mode selects how the camera moves.
type Mode uint8

const (
	ModeStatic Mode = iota
	ModeFollow
	ModeCinematic
	ModeFree
)

var modeNames = [...]string{"static", "follow", "cinematic", "free"}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for i, n := range modeNames {
		if strings.EqualFold(n, string(b)) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("camera: unknown mode %q", string(b))
}

// Config describes the viewport, the world it looks at and tuning values.
type Config struct {
	ViewportWidth  float64     `json:"viewportWidth" yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight float64     `json:"viewportHeight" yaml:"viewport_height" toml:"viewport_height"`
	WorldBounds    core.Bounds `json:"worldBounds" yaml:"world_bounds" toml:"world_bounds"`
	Smoothing      float64     `json:"smoothing" yaml:"smoothing" toml:"smoothing"`
	MinZoom        float64     `json:"minZoom" yaml:"min_zoom" toml:"min_zoom"`
	MaxZoom        float64     `json:"maxZoom" yaml:"max_zoom" toml:"max_zoom"`
	// DeadZoneX and DeadZoneY are fractions of the half viewport.
	DeadZoneX float64 `json:"deadZoneX" yaml:"dead_zone_x" toml:"dead_zone_x"`
	DeadZoneY float64 `json:"deadZoneY" yaml:"dead_zone_y" toml:"dead_zone_y"`
	LookAhead float64 `json:"lookAhead" yaml:"look_ahead" toml:"look_ahead"`
	Mode      Mode    `json:"mode" yaml:"mode" toml:"mode"`
}

// DefaultConfig returns an 800x600 viewport over an equally sized world.
func DefaultConfig() Config {
	return Config{
		ViewportWidth:  800,
		ViewportHeight: 600,
		WorldBounds:    core.Bounds{MaxX: 800, MaxY: 600},
		Smoothing:      0.1,
		MinZoom:        0.5,
		MaxZoom:        2,
		DeadZoneX:      0.2,
		DeadZoneY:      0.2,
		LookAhead:      50,
		Mode:           ModeFollow,
	}
}

// State is the camera pose. Shake offsets are kept apart from X and Y.
type State struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Zoom           float64 `json:"zoom"`
	TargetX        float64 `json:"targetX"`
	TargetY        float64 `json:"targetY"`
	TargetZoom     float64 `json:"targetZoom"`
	ShakeX         float64 `json:"shakeX"`
	ShakeY         float64 `json:"shakeY"`
	ShakeIntensity float64 `json:"shakeIntensity"`
}

// Keyframe is one pose of a cinematic. Easing shapes the approach to it.
type Keyframe struct {
	At     time.Duration `json:"at" yaml:"at" toml:"at"`
	X      float64       `json:"x" yaml:"x" toml:"x"`
	Y      float64       `json:"y" yaml:"y" toml:"y"`
	Zoom   float64       `json:"zoom" yaml:"zoom" toml:"zoom"`
	Easing Easing        `json:"easing" yaml:"easing" toml:"easing"`
}

// Controller owns the camera. It is not safe for concurrent use.
type Controller struct {
	cfg    Config
	st     State
	mode   Mode
	logger *log.Logger
	rng    *rand.Rand

	keyframes  []Keyframe
	playing    bool
	clock      time.Duration
	onComplete func()
	resumeMode Mode

	shakeLeft  time.Duration
	shakeTimed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSeed seeds the shake generator.
func WithSeed(seed int64) Option {
	return func(c *Controller) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a camera centred on the viewport at zoom 1.
func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:    normalize(cfg),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c.mode = c.cfg.Mode
	cx, cy := c.cfg.ViewportWidth/2, c.cfg.ViewportHeight/2
	c.st = State{X: cx, Y: cy, Zoom: 1, TargetX: cx, TargetY: cy, TargetZoom: 1}
	c.clamp()
	return c
}

func normalize(cfg Config) Config {
	d := DefaultConfig()
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = d.ViewportWidth
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = d.ViewportHeight
	}
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = d.MinZoom
	}
	if cfg.MaxZoom < cfg.MinZoom {
		cfg.MaxZoom = cfg.MinZoom
	}
	if cfg.Smoothing <= 0 {
		cfg.Smoothing = d.Smoothing
	}
	return cfg
}

// Config returns the current configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// UpdateConfig edits the configuration in place and re-applies clamping.
// Hosts call it when the viewport resizes.
func (c *Controller) UpdateConfig(fn func(*Config)) {
	cfg := c.cfg
	fn(&cfg)
	c.cfg = normalize(cfg)
	c.clamp()
}

// Resize sets the viewport size.
func (c *Controller) Resize(w, h float64) {
	c.UpdateConfig(func(cfg *Config) {
		cfg.ViewportWidth = w
		cfg.ViewportHeight = h
	})
}

// State returns the camera pose.
func (c *Controller) State() State {
	return c.st
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches mode. Leaving cinematic mode stops playback.
func (c *Controller) SetMode(m Mode) {
	if c.mode == ModeCinematic && m != ModeCinematic {
		c.playing = false
	}
	c.mode = m
}

// Zoom returns the current zoom.
func (c *Controller) Zoom() float64 {
	return c.st.Zoom
}

// IsPlaying reports whether a cinematic is running.
func (c *Controller) IsPlaying() bool {
	return c.playing
}

// SetPosition moves the camera instantly.
func (c *Controller) SetPosition(x, y float64) {
	c.st.X, c.st.Y = x, y
	c.st.TargetX, c.st.TargetY = x, y
	c.clamp()
}

// SetTarget sets the point the camera smooths toward.
func (c *Controller) SetTarget(x, y float64) {
	c.st.TargetX, c.st.TargetY = x, y
	c.clamp()
}

// SetZoom changes zoom instantly, clamped to the configured range.
func (c *Controller) SetZoom(z float64) {
	c.st.Zoom = z
	c.st.TargetZoom = z
	c.clamp()
}

// ZoomTo sets the zoom the camera smooths toward.
func (c *Controller) ZoomTo(z float64) {
	c.st.TargetZoom = z
	c.clamp()
}

// Pan moves the target by a world-space offset. Only free mode pans.
func (c *Controller) Pan(dx, dy float64) {
	if c.mode != ModeFree {
		return
	}
	c.st.TargetX += dx
	c.st.TargetY += dy
	c.clamp()
}

// Follow retargets the camera on a moving subject with velocity (vx, vy).
// The target only moves once the look-ahead point leaves the dead zone, and
// then just far enough to put it back on the edge. Ignored outside follow mode.
func (c *Controller) Follow(x, y, vx, vy float64) {
	if c.mode != ModeFollow {
		return
	}
	ix := x + lookAhead(vx, c.cfg.LookAhead)
	iy := y + lookAhead(vy, c.cfg.LookAhead)

	dzx := c.cfg.ViewportWidth / 2 * c.cfg.DeadZoneX
	dzy := c.cfg.ViewportHeight / 2 * c.cfg.DeadZoneY

	if dx := ix - c.st.X; dx > dzx {
		c.st.TargetX = ix - dzx
	} else if dx < -dzx {
		c.st.TargetX = ix + dzx
	}
	if dy := iy - c.st.Y; dy > dzy {
		c.st.TargetY = iy - dzy
	} else if dy < -dzy {
		c.st.TargetY = iy + dzy
	}
	c.clamp()
}

func lookAhead(v, length float64) float64 {
	return core.Sign(v) * length * math.Min(math.Abs(v)/lookAheadSpeed, 1)
}

// Shake raises shake intensity to at least intensity. A positive duration
// zeroes the shake once that much update time has passed.
func (c *Controller) Shake(intensity float64, duration time.Duration) {
	if intensity > c.st.ShakeIntensity {
		c.st.ShakeIntensity = intensity
	}
	if duration > 0 {
		c.shakeLeft = duration
		c.shakeTimed = true
	}
}

// PlayCinematic starts keyframe playback from time zero. Keyframes are
// ordered by time; onComplete, if set, runs once playback reaches the last one.
func (c *Controller) PlayCinematic(keyframes []Keyframe, onComplete func()) {
	if len(keyframes) == 0 {
		return
	}
	kfs := append([]Keyframe(nil), keyframes...)
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].At < kfs[j].At })

	if c.mode != ModeCinematic {
		c.resumeMode = c.mode
	}
	c.keyframes = kfs
	c.clock = 0
	c.playing = true
	c.onComplete = onComplete
	c.mode = ModeCinematic
	c.logger.Debug("cinematic started", "keyframes", len(kfs), "length", kfs[len(kfs)-1].At)
}

// StopCinematic halts playback where it is and restores the previous mode.
func (c *Controller) StopCinematic() {
	if c.mode != ModeCinematic {
		return
	}
	c.playing = false
	c.mode = c.resumeMode
	c.st.TargetX, c.st.TargetY, c.st.TargetZoom = c.st.X, c.st.Y, c.st.Zoom
}

// Keyframes returns the loaded cinematic.
func (c *Controller) Keyframes() []Keyframe {
	return append([]Keyframe(nil), c.keyframes...)
}

// Update advances the camera by dt.
func (c *Controller) Update(dt time.Duration) {
	if c.mode == ModeCinematic {
		c.updateCinematic(dt)
	} else {
		factor := math.Min(float64(dt)/float64(baselineFrame), 2)
		k := math.Min(c.cfg.Smoothing*factor, 1)
		c.st.X += (c.st.TargetX - c.st.X) * k
		c.st.Y += (c.st.TargetY - c.st.Y) * k
		c.st.Zoom += (c.st.TargetZoom - c.st.Zoom) * k
	}
	c.updateShake(dt)
	c.clamp()
}

func (c *Controller) updateCinematic(dt time.Duration) {
	if !c.playing {
		return
	}
	c.clock += dt
	kfs := c.keyframes
	last := kfs[len(kfs)-1]

	if c.clock >= last.At {
		c.pose(last.X, last.Y, last.Zoom)
		c.playing = false
		c.logger.Debug("cinematic finished")
		if fn := c.onComplete; fn != nil {
			c.onComplete = nil
			fn()
		}
		return
	}
	if c.clock < kfs[0].At {
		c.pose(kfs[0].X, kfs[0].Y, kfs[0].Zoom)
		return
	}

	i := sort.Search(len(kfs), func(i int) bool { return kfs[i].At > c.clock }) - 1
	a, b := kfs[i], kfs[i+1]
	t := float64(c.clock-a.At) / float64(b.At-a.At)
	e := b.Easing.Apply(t)
	c.pose(core.Lerp(a.X, b.X, e), core.Lerp(a.Y, b.Y, e), core.Lerp(a.Zoom, b.Zoom, e))
}

func (c *Controller) pose(x, y, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	c.st.X, c.st.Y, c.st.Zoom = x, y, zoom
	c.st.TargetX, c.st.TargetY, c.st.TargetZoom = x, y, zoom
}

func (c *Controller) updateShake(dt time.Duration) {
	if c.shakeTimed {
		c.shakeLeft -= dt
		if c.shakeLeft <= 0 {
			c.stopShake()
			return
		}
	}
	if c.st.ShakeIntensity <= 0 {
		return
	}
	i := c.st.ShakeIntensity
	c.st.ShakeX = (c.rng.Float64()*2 - 1) * i
	c.st.ShakeY = (c.rng.Float64()*2 - 1) * i
	c.st.ShakeIntensity = i * shakeDecay
	if c.st.ShakeIntensity < shakeFloor {
		c.stopShake()
	}
}

func (c *Controller) stopShake() {
	c.st.ShakeX, c.st.ShakeY, c.st.ShakeIntensity = 0, 0, 0
	c.shakeLeft = 0
	c.shakeTimed = false
}

// clamp keeps zoom in range and the visible area inside the world.
func (c *Controller) clamp() {
	c.st.Zoom = core.ClampF(c.st.Zoom, c.cfg.MinZoom, c.cfg.MaxZoom)
	c.st.TargetZoom = core.ClampF(c.st.TargetZoom, c.cfg.MinZoom, c.cfg.MaxZoom)

	b := c.cfg.WorldBounds
	if b.Width() <= 0 || b.Height() <= 0 {
		return
	}
	clampAxis := func(v, zoom, span, lo, hi float64) float64 {
		half := span / 2 / zoom
		return core.ClampF(v, lo+half, hi-half)
	}
	c.st.X = clampAxis(c.st.X, c.st.Zoom, c.cfg.ViewportWidth, b.MinX, b.MaxX)
	c.st.Y = clampAxis(c.st.Y, c.st.Zoom, c.cfg.ViewportHeight, b.MinY, b.MaxY)
	c.st.TargetX = clampAxis(c.st.TargetX, c.st.TargetZoom, c.cfg.ViewportWidth, b.MinX, b.MaxX)
	c.st.TargetY = clampAxis(c.st.TargetY, c.st.TargetZoom, c.cfg.ViewportHeight, b.MinY, b.MaxY)
}

// ScreenToWorld converts viewport pixels to world coordinates, ignoring shake.
func (c *Controller) ScreenToWorld(sx, sy float64) (float64, float64) {
	z := c.st.Zoom
	return (sx-c.cfg.ViewportWidth/2)/z + c.st.X, (sy-c.cfg.ViewportHeight/2)/z + c.st.Y
}

// WorldToScreen converts world coordinates to viewport pixels, ignoring shake.
func (c *Controller) WorldToScreen(wx, wy float64) (float64, float64) {
	z := c.st.Zoom
	return (wx-c.st.X)*z + c.cfg.ViewportWidth/2, (wy-c.st.Y)*z + c.cfg.ViewportHeight/2
}

// View is the pose renderers should draw with, shake included.
type View struct {
	X, Y, Zoom float64
}

// View returns the render pose.
func (c *Controller) View() View {
	return View{X: c.st.X + c.st.ShakeX, Y: c.st.Y + c.st.ShakeY, Zoom: c.st.Zoom}
}

// Project maps a world point to viewport pixels through v.
func (c *Controller) Project(v View, wx, wy float64) (float64, float64) {
	return (wx-v.X)*v.Zoom + c.cfg.ViewportWidth/2, (wy-v.Y)*v.Zoom + c.cfg.ViewportHeight/2
}

// VisibleBounds returns the world rectangle currently in view.
func (c *Controller) VisibleBounds() core.Bounds {
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(c.cfg.ViewportWidth, c.cfg.ViewportHeight)
	return core.Bounds{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

// Snapshot is the serialisable form of a Controller.
type Snapshot struct {
	Config             Config     `json:"config"`
	State              State      `json:"state"`
	Mode               Mode       `json:"mode"`
	IsPlaying          bool       `json:"isPlaying"`
	CinematicKeyframes []Keyframe `json:"cinematicKeyframes"`
}

// Serialize captures configuration, pose and cinematic.
func (c *Controller) Serialize() Snapshot {
	kfs := c.Keyframes()
	if kfs == nil {
		kfs = []Keyframe{}
	}
	return Snapshot{
		Config:             c.cfg,
		State:              c.st,
		Mode:               c.mode,
		IsPlaying:          c.playing,
		CinematicKeyframes: kfs,
	}
}
