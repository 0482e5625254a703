package mechanics

import (
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/physics"
)

// Config holds the per-genre tunables. Speeds are in pixels per 60 Hz step.
// A Config is fixed for the lifetime of one engine.
type Config struct {
	Type Type `yaml:"type" toml:"type" json:"type"`

	MoveSpeed    float64 `yaml:"move_speed" toml:"move_speed" json:"moveSpeed"`
	JumpForce    float64 `yaml:"jump_force" toml:"jump_force" json:"jumpForce"`
	MaxFallSpeed float64 `yaml:"max_fall_speed" toml:"max_fall_speed" json:"maxFallSpeed"`
	DoubleJump   bool    `yaml:"double_jump" toml:"double_jump" json:"doubleJump"`
	WallJump     bool    `yaml:"wall_jump" toml:"wall_jump" json:"wallJump"` // declared, not read by any template

	// Acceleration and Deceleration are per-step blend factors (third-person).
	Acceleration float64 `yaml:"acceleration" toml:"acceleration" json:"acceleration"`
	Deceleration float64 `yaml:"deceleration" toml:"deceleration" json:"deceleration"`

	PlayerWidth  float64   `yaml:"player_width" toml:"player_width" json:"playerWidth"`
	PlayerHeight float64   `yaml:"player_height" toml:"player_height" json:"playerHeight"`
	Start        core.Vec2 `yaml:"start" toml:"start" json:"start"`
	WorldWidth   float64   `yaml:"world_width" toml:"world_width" json:"worldWidth"`
	WorldHeight  float64   `yaml:"world_height" toml:"world_height" json:"worldHeight"`

	Gravity     core.Vec2 `yaml:"gravity" toml:"gravity" json:"gravity"`
	Friction    float64   `yaml:"friction" toml:"friction" json:"friction"`
	FrictionAir float64   `yaml:"friction_air" toml:"friction_air" json:"frictionAir"`

	// Shooter projectiles.
	ProjectileSpeed    float64       `yaml:"projectile_speed" toml:"projectile_speed" json:"projectileSpeed"`
	ProjectileLifetime time.Duration `yaml:"projectile_lifetime" toml:"projectile_lifetime" json:"projectileLifetime"`
	FireCooldown       time.Duration `yaml:"fire_cooldown" toml:"fire_cooldown" json:"fireCooldown"`

	Debug bool `yaml:"debug" toml:"debug" json:"debug"`
}

// DefaultConfig returns the built-in tuning for a genre.
// Unknown genres get the platformer tuning.
func DefaultConfig(t Type) Config {
	cfg := Config{
		Type:         t,
		MoveSpeed:    5,
		JumpForce:    12,
		MaxFallSpeed: 15,
		PlayerWidth:  32,
		PlayerHeight: 48,
		Start:        core.V(100, 400),
		WorldWidth:   800,
		WorldHeight:  600,
		Gravity:      core.V(0, 1),
		Friction:     0.1,
		FrictionAir:  0.01,
	}

	switch t {
	case Platformer:
		cfg.DoubleJump = true
	case TopDown:
		cfg.MoveSpeed = 4
		cfg.JumpForce = 0
		cfg.PlayerWidth, cfg.PlayerHeight = 32, 32
		cfg.Start = core.V(400, 300)
		cfg.Gravity = core.Vec2{}
		cfg.FrictionAir = 0.1
	case Puzzle:
		cfg.MoveSpeed = 3
		cfg.JumpForce = 0
		cfg.PlayerWidth, cfg.PlayerHeight = 32, 32
		cfg.Gravity = core.V(0, 0.5)
		cfg.Friction = 0.3
	case Shooter:
		cfg.JumpForce = 0
		cfg.PlayerWidth, cfg.PlayerHeight = 32, 32
		cfg.Start = core.V(400, 500)
		cfg.Gravity = core.Vec2{}
		cfg.FrictionAir = 0.05
		cfg.ProjectileSpeed = 10
		cfg.ProjectileLifetime = 2 * time.Second
		cfg.FireCooldown = 200 * time.Millisecond
	case FPS:
		cfg.MoveSpeed = 3
		cfg.JumpForce = 0
		cfg.PlayerWidth, cfg.PlayerHeight = 24, 24
		cfg.Start = core.V(400, 300)
		cfg.Gravity = core.Vec2{}
		cfg.FrictionAir = 0.1
	case ThirdPerson:
		cfg.MoveSpeed = 6
		cfg.JumpForce = 10
		cfg.Acceleration = 0.2
		cfg.Deceleration = 0.15
		cfg.PlayerWidth, cfg.PlayerHeight = 32, 56
	default:
		cfg.Type = Platformer
		cfg.DoubleJump = true
	}
	return cfg
}

// WithDefaults fills zero sizes and speeds from the genre defaults.
// Booleans and gravity are taken as given. An unknown genre becomes a
// platformer with the platformer's tuning; only the world size, start
// position and debug flag carry over.
func (c Config) WithDefaults() Config {
	if !c.Type.Valid() {
		d := DefaultConfig(Platformer)
		if c.WorldWidth > 0 {
			d.WorldWidth = c.WorldWidth
		}
		if c.WorldHeight > 0 {
			d.WorldHeight = c.WorldHeight
		}
		if c.Start != (core.Vec2{}) {
			d.Start = c.Start
		}
		d.Debug = c.Debug
		return d
	}
	d := DefaultConfig(c.Type)
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.MoveSpeed, d.MoveSpeed)
	fill(&c.MaxFallSpeed, d.MaxFallSpeed)
	fill(&c.PlayerWidth, d.PlayerWidth)
	fill(&c.PlayerHeight, d.PlayerHeight)
	fill(&c.WorldWidth, d.WorldWidth)
	fill(&c.WorldHeight, d.WorldHeight)
	if c.JumpForce <= 0 {
		c.JumpForce = d.JumpForce
	}
	if c.Acceleration <= 0 || c.Acceleration > 1 {
		c.Acceleration = d.Acceleration
	}
	if c.Deceleration <= 0 || c.Deceleration > 1 {
		c.Deceleration = d.Deceleration
	}
	if c.Type == Shooter {
		fill(&c.ProjectileSpeed, d.ProjectileSpeed)
		if c.ProjectileLifetime <= 0 {
			c.ProjectileLifetime = d.ProjectileLifetime
		}
		if c.FireCooldown <= 0 {
			c.FireCooldown = d.FireCooldown
		}
	}
	return c
}

// World returns the physics settings for this tuning.
func (c Config) World() physics.Config {
	w := physics.DefaultConfig()
	w.Gravity = c.Gravity
	if c.WorldWidth > 0 {
		w.Width = c.WorldWidth
	}
	if c.WorldHeight > 0 {
		w.Height = c.WorldHeight
	}
	return w
}

// GameState is what the host reads to draw a frame and what templates
// thread from one update to the next.
type GameState struct {
	PlayerPosition core.Vec2     `json:"playerPosition"`
	PlayerVelocity core.Vec2     `json:"playerVelocity"`
	IsGrounded     bool          `json:"isGrounded"`
	IsTouchingWall bool          `json:"isTouchingWall"`
	HasDoubleJump  bool          `json:"hasDoubleJump"`
	Score          int           `json:"score"`
	Time           time.Duration `json:"time"`
	IsPaused       bool          `json:"isPaused"`
	IsGameOver     bool          `json:"isGameOver"`
	Collectibles   int           `json:"collectibles"`
}

// InitialState returns the state a fresh game starts from.
func InitialState(cfg Config) GameState {
	return GameState{
		PlayerPosition: cfg.Start,
		HasDoubleJump:  cfg.DoubleJump,
	}
}
