package mechanics

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// setup builds a world and an initialized template for the genre.
func setup(t Type, edit func(*Config)) (*physics.World, Template, Config, GameState) {
	cfg := DefaultConfig(t)
	if edit != nil {
		edit(&cfg)
	}
	w := physics.NewWorld(cfg.World())
	w.CreateBounds(0)
	tpl := t.Template()
	tpl.Initialize(w, cfg)
	return w, tpl, cfg, InitialState(cfg)
}

// settle steps the world until the player rests.
func settle(w *physics.World, tpl Template, st GameState) GameState {
	for i := 0; i < 120; i++ {
		w.Step()
		st = tpl.Update(w, input.State{}, st, frame)
	}
	return st
}

func pressed(actions ...core.Action) input.State {
	s := core.SetOf(actions...)
	return input.State{Actions: s, JustPressed: s}
}

func held(actions ...core.Action) input.State {
	return input.State{Actions: core.SetOf(actions...)}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"platformer", Platformer, true},
		{"top-down", TopDown, true},
		{"TOP_DOWN", TopDown, true},
		{"topDown", TopDown, true},
		{"third person", ThirdPerson, true},
		{"fps", FPS, true},
		{"racing", Platformer, false},
	}
	for _, tc := range tests {
		got, ok := ParseType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseType(%q) = %v, %v; expected %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTemplateForEveryType(t *testing.T) {
	for _, typ := range Types() {
		if got := typ.Template().Type(); got != typ {
			t.Errorf("%v.Template().Type() = %v", typ, got)
		}
	}
	if got := Type(42).Template().Type(); got != Platformer {
		t.Errorf("unknown type should fall back to platformer, got %v", got)
	}
	if got := DefaultConfig(Type(42)).Type; got != Platformer {
		t.Errorf("unknown type config should be platformer, got %v", got)
	}
}

func TestGenreBindings(t *testing.T) {
	tests := []struct {
		typ  Type
		key  string
		want core.Action
	}{
		{Platformer, "ArrowUp", core.ActionJump},
		{Platformer, "Space", core.ActionJump},
		{TopDown, "ArrowUp", core.ActionMoveUp},
		{Shooter, "Space", core.ActionAction},
		{FPS, "KeyE", core.ActionAction},
		{ThirdPerson, "KeyW", core.ActionJump},
	}
	for _, tc := range tests {
		if got := tc.typ.Bindings()[tc.key]; got != tc.want {
			t.Errorf("%v binds %s to %v, expected %v", tc.typ, tc.key, got, tc.want)
		}
	}
}

func TestWorldConfigPerGenre(t *testing.T) {
	if g := Platformer.WorldConfig().Gravity; g.Y != 1 {
		t.Errorf("platformer gravity = %v, expected downward", g)
	}
	if g := Puzzle.WorldConfig().Gravity; g.Y != 0.5 {
		t.Errorf("puzzle gravity = %v, expected light", g)
	}
	for _, typ := range []Type{TopDown, Shooter, FPS} {
		if g := typ.WorldConfig().Gravity; g != (core.Vec2{}) {
			t.Errorf("%v gravity = %v, expected none", typ, g)
		}
	}
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig(Platformer)
	st := InitialState(cfg)
	if st.PlayerPosition != cfg.Start || !st.HasDoubleJump || st.Score != 0 || st.IsGameOver {
		t.Errorf("unexpected initial state %+v", st)
	}
	cfg.DoubleJump = false
	if InitialState(cfg).HasDoubleJump {
		t.Error("HasDoubleJump should follow the config")
	}
}

func TestPlatformerJumps(t *testing.T) {
	w, tpl, cfg, st := setup(Platformer, nil)
	st = settle(w, tpl, st)

	if !st.IsGrounded {
		t.Fatalf("player should rest on the ground, state %+v", st)
	}

	st = tpl.Update(w, pressed(core.ActionJump), st, frame)
	if !approx(st.PlayerVelocity.Y, -cfg.JumpForce) {
		t.Fatalf("ground jump velocity = %f, expected %f", st.PlayerVelocity.Y, -cfg.JumpForce)
	}

	for i := 0; i < 5; i++ {
		w.Step()
		st = tpl.Update(w, input.State{}, st, frame)
	}
	if st.IsGrounded {
		t.Fatal("player should be airborne")
	}

	st = tpl.Update(w, pressed(core.ActionJump), st, frame)
	if !approx(st.PlayerVelocity.Y, -cfg.JumpForce*doubleJumpFactor) {
		t.Errorf("air jump velocity = %f, expected %f", st.PlayerVelocity.Y, -cfg.JumpForce*doubleJumpFactor)
	}
	if st.HasDoubleJump {
		t.Error("air jump should consume the charge")
	}

	w.Step()
	st = tpl.Update(w, pressed(core.ActionJump), st, frame)
	if st.PlayerVelocity.Y < -cfg.JumpForce*doubleJumpFactor {
		t.Errorf("third jump should not fire, velocity %f", st.PlayerVelocity.Y)
	}

	st = settle(w, tpl, st)
	if !st.HasDoubleJump {
		t.Error("landing should restore the air jump")
	}
}

func TestPlatformerHorizontal(t *testing.T) {
	w, tpl, cfg, st := setup(Platformer, nil)
	st = settle(w, tpl, st)

	st = tpl.Update(w, held(core.ActionMoveRight), st, frame)
	if !approx(st.PlayerVelocity.X, cfg.MoveSpeed) {
		t.Errorf("vx = %f, expected %f", st.PlayerVelocity.X, cfg.MoveSpeed)
	}

	st = tpl.Update(w, input.State{}, st, frame)
	if !approx(st.PlayerVelocity.X, cfg.MoveSpeed*idleDecay) {
		t.Errorf("idle vx = %f, expected %f", st.PlayerVelocity.X, cfg.MoveSpeed*idleDecay)
	}

	w.SetVelocity(PlayerID, core.V(0, 40))
	st = tpl.Update(w, input.State{}, st, frame)
	if !approx(st.PlayerVelocity.Y, cfg.MaxFallSpeed) {
		t.Errorf("fall speed = %f, expected clamp at %f", st.PlayerVelocity.Y, cfg.MaxFallSpeed)
	}
}

func TestPlatformerWallContactKeepsChargeSpent(t *testing.T) {
	w, tpl, cfg, st := setup(Platformer, func(c *Config) { c.WallJump = true })
	w.SetPosition(PlayerID, core.V(300, 200))
	right := 300 + cfg.PlayerWidth/2
	w.CreateObstacle("wall", right+8, 200, 20, 200)
	st.HasDoubleJump = false

	st = tpl.Update(w, input.State{}, st, frame)
	if !st.IsTouchingWall {
		t.Fatal("player should touch the wall")
	}
	if st.HasDoubleJump {
		t.Error("wall contact should not restore the air jump")
	}
}

func TestMoverFollowsMovementVector(t *testing.T) {
	for _, typ := range []Type{TopDown, FPS, Shooter} {
		w, tpl, cfg, st := setup(typ, nil)

		in := input.State{Movement: core.V(1, 1).Normalize()}
		st = tpl.Update(w, in, st, frame)
		want := cfg.MoveSpeed / math.Sqrt2
		if !approx(st.PlayerVelocity.X, want) || !approx(st.PlayerVelocity.Y, want) {
			t.Errorf("%v velocity = %v, expected (%f, %f)", typ, st.PlayerVelocity, want, want)
		}

		st = tpl.Update(w, input.State{}, st, frame)
		for i := 0; i < 60; i++ {
			w.Step()
		}
		st = tpl.Update(w, input.State{}, st, frame)
		if st.PlayerVelocity.Len() > 1e-9 {
			t.Errorf("%v should not drift without input or gravity, velocity %v", typ, st.PlayerVelocity)
		}
	}
}

func TestPuzzleOnlyDrivesHorizontal(t *testing.T) {
	w, tpl, cfg, st := setup(Puzzle, nil)
	w.SetPosition(PlayerID, core.V(400, 200))
	w.SetVelocity(PlayerID, core.V(0, 2))

	in := held(core.ActionMoveRight, core.ActionMoveUp, core.ActionJump)
	in.Movement = core.V(1, -1).Normalize()
	st = tpl.Update(w, in, st, frame)
	if !approx(st.PlayerVelocity.X, cfg.MoveSpeed) || !approx(st.PlayerVelocity.Y, 2) {
		t.Errorf("velocity = %v, expected (%f, 2)", st.PlayerVelocity, cfg.MoveSpeed)
	}
}

func TestThirdPersonEases(t *testing.T) {
	w, tpl, cfg, st := setup(ThirdPerson, nil)
	st = settle(w, tpl, st)
	w.SetVelocity(PlayerID, core.Vec2{})

	st = tpl.Update(w, held(core.ActionMoveRight), st, frame)
	if want := cfg.MoveSpeed * cfg.Acceleration; !approx(st.PlayerVelocity.X, want) {
		t.Errorf("first step vx = %f, expected %f", st.PlayerVelocity.X, want)
	}
	for i := 0; i < 60; i++ {
		st = tpl.Update(w, held(core.ActionMoveRight), st, frame)
	}
	if st.PlayerVelocity.X >= cfg.MoveSpeed || st.PlayerVelocity.X < cfg.MoveSpeed*0.99 {
		t.Errorf("vx = %f, expected just under %f", st.PlayerVelocity.X, cfg.MoveSpeed)
	}

	w.SetVelocity(PlayerID, core.V(cfg.MoveSpeed, 0))
	st = tpl.Update(w, input.State{}, st, frame)
	if want := cfg.MoveSpeed * (1 - cfg.Deceleration); !approx(st.PlayerVelocity.X, want) {
		t.Errorf("decelerated vx = %f, expected %f", st.PlayerVelocity.X, want)
	}
}

func TestThirdPersonJumpsFromGroundOnly(t *testing.T) {
	w, tpl, cfg, st := setup(ThirdPerson, nil)
	st = settle(w, tpl, st)

	st = tpl.Update(w, pressed(core.ActionJump), st, frame)
	if !approx(st.PlayerVelocity.Y, -cfg.JumpForce) {
		t.Fatalf("jump velocity = %f, expected %f", st.PlayerVelocity.Y, -cfg.JumpForce)
	}
	for i := 0; i < 5; i++ {
		w.Step()
	}
	before, _ := w.Velocity(PlayerID)
	st = tpl.Update(w, pressed(core.ActionJump), st, frame)
	if !approx(st.PlayerVelocity.Y, before.Y) {
		t.Errorf("air jump changed velocity from %f to %f", before.Y, st.PlayerVelocity.Y)
	}
}

func TestShooterFiresWithCooldown(t *testing.T) {
	w, tpl, cfg, st := setup(Shooter, nil)
	s := tpl.(*shooter)

	fire := held(core.ActionAction)
	st = tpl.Update(w, fire, st, frame)
	if s.Projectiles() != 1 {
		t.Fatalf("projectiles = %d, expected 1", s.Projectiles())
	}
	if len(w.BodiesOfType(physics.BodyProjectile)) != 1 {
		t.Fatal("projectile body missing")
	}
	v, _ := w.Velocity("projectile-1")
	if !approx(v.Y, -cfg.ProjectileSpeed) {
		t.Errorf("projectile velocity = %v, expected straight up", v)
	}

	st = tpl.Update(w, fire, st, frame)
	if s.Projectiles() != 1 {
		t.Errorf("cooldown ignored, projectiles = %d", s.Projectiles())
	}

	st = tpl.Update(w, fire, st, cfg.FireCooldown)
	st = tpl.Update(w, fire, st, frame)
	if s.Projectiles() != 2 {
		t.Errorf("projectiles = %d, expected 2 after cooldown", s.Projectiles())
	}

	st = tpl.Update(w, input.State{}, st, cfg.ProjectileLifetime)
	tpl.Update(w, input.State{}, st, frame)
	if s.Projectiles() != 0 || len(w.BodiesOfType(physics.BodyProjectile)) != 0 {
		t.Errorf("projectiles should expire, %d left", s.Projectiles())
	}
}

func TestShooterHitsTargets(t *testing.T) {
	w, tpl, _, st := setup(Shooter, nil)
	w.CreateTrigger(TargetPrefix+"-1", 400, 400, 40, 40)
	w.CreateTrigger("collectible-1", 400, 300, 40, 40)

	st = tpl.Update(w, held(core.ActionAction), st, frame)
	for i := 0; i < 30; i++ {
		w.Step()
		st = tpl.Update(w, input.State{}, st, frame)
	}

	if st.Score != targetScore {
		t.Errorf("score = %d, expected %d", st.Score, targetScore)
	}
	if _, ok := w.Body(TargetPrefix + "-1"); ok {
		t.Error("target should be destroyed")
	}
	if _, ok := w.Body("collectible-1"); !ok {
		t.Error("projectiles should pass through other triggers")
	}
	if tpl.(*shooter).Projectiles() != 0 {
		t.Error("projectile should be spent on the target")
	}
}

func TestShooterReinitializeResubscribes(t *testing.T) {
	w, tpl, cfg, _ := setup(Shooter, nil)
	before := w.Subscribers(physics.CollisionStart)
	w.ClearBodies()
	tpl.Initialize(w, cfg)
	if got := w.Subscribers(physics.CollisionStart); got != before {
		t.Errorf("subscribers = %d after re-init, expected %d", got, before)
	}
}

func TestDebugRenderer(t *testing.T) {
	w, tpl, _, st := setup(Platformer, nil)
	dr, ok := tpl.(DebugRenderer)
	if !ok {
		t.Fatal("platformer should render debug info")
	}
	scr := core.NewScreen(60, 6)
	dr.RenderDebug(scr, w, st)
	if !strings.Contains(scr.Row(0), "platformer") || !strings.Contains(scr.Row(3), "jump") {
		t.Errorf("unexpected debug output:\n%s", scr.String())
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		desc, scene string
		want        Type
	}{
		{"A first person shooter in a neon corridor", "", FPS},
		{"Alien spaceship firing lasers", "", Shooter},
		{"Hero exploring ancient ruins", "", ThirdPerson},
		{"Colourful sliding block puzzle", "", Puzzle},
		{"Overhead view of a medieval village", "", TopDown},
		{"Side-scrolling cliffs at sunset", "", Platformer},
		{"Quiet still life", "interior", TopDown},
		{"Quiet still life", "space", Shooter},
		{"Quiet still life", "", Platformer},
	}
	for _, tc := range tests {
		if got := Suggest(tc.desc, tc.scene); got != tc.want {
			t.Errorf("Suggest(%q, %q) = %v, expected %v", tc.desc, tc.scene, got, tc.want)
		}
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Type: Shooter, MoveSpeed: 7}.WithDefaults()
	if cfg.MoveSpeed != 7 {
		t.Errorf("MoveSpeed overwritten: %f", cfg.MoveSpeed)
	}
	if cfg.PlayerWidth != 32 || cfg.WorldWidth != 800 || cfg.ProjectileLifetime != 2*time.Second {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if got := (Config{Type: Type(99)}).WithDefaults().Type; got != Platformer {
		t.Errorf("invalid type should become platformer, got %v", got)
	}
}

func TestUnknownTypeTakesPlatformerTuning(t *testing.T) {
	in := DefaultConfig(TopDown)
	in.Type = Type(99)
	in.WorldWidth = 1200
	got := in.WithDefaults()

	want := DefaultConfig(Platformer)
	if got.Gravity != want.Gravity || got.FrictionAir != want.FrictionAir || got.JumpForce != want.JumpForce {
		t.Errorf("tuning = gravity %v air %v jump %v, expected platformer %v %v %v",
			got.Gravity, got.FrictionAir, got.JumpForce, want.Gravity, want.FrictionAir, want.JumpForce)
	}
	if !got.DoubleJump || got.PlayerHeight != want.PlayerHeight {
		t.Errorf("player tuning not reset: %+v", got)
	}
	if got.WorldWidth != 1200 || got.Start != in.Start {
		t.Errorf("world size or start lost: width %v start %v", got.WorldWidth, got.Start)
	}
}
