package physics

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/playforge/internal/core"
)

func newTestWorld() *World {
	return NewWorld(DefaultConfig())
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBodyCountTracksCreatesAndRemoves(t *testing.T) {
	w := newTestWorld()
	w.CreateBounds(50)
	w.CreatePlayer("player", 100, 100, 32, 48)
	w.CreatePlatform("ground", 400, 580, 800, 40)
	w.CreateObstacle("crate", 300, 500, 40, 40)
	w.CreateCircle("ball", 500, 100, 10)
	w.CreateTrigger("goal", 700, 540, 40, 40)

	if got := len(w.AllBodies()); got != 9 {
		t.Fatalf("AllBodies() = %d, expected 9", got)
	}

	w.RemoveBody("crate")
	w.RemoveBody("ball")
	w.RemoveBody("missing")

	if got := len(w.AllBodies()); got != 7 {
		t.Errorf("AllBodies() after removes = %d, expected 7", got)
	}
	if w.Len() != 7 {
		t.Errorf("Len() = %d, expected 7", w.Len())
	}
}

func TestReusingIDReplacesBody(t *testing.T) {
	w := newTestWorld()
	first := w.CreatePlatform("p", 100, 100, 50, 10)
	second := w.CreatePlatform("p", 200, 200, 50, 10)

	if w.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", w.Len())
	}
	got, ok := w.Body("p")
	if !ok || got != second {
		t.Errorf("Body(p) should resolve to the replacement")
	}
	if _, ok := w.BodyByHandle(first.Handle()); ok {
		t.Error("handle of replaced body should be stale")
	}
	if w.space.ContainsShape(first.shape) {
		t.Error("replaced body should be detached from the solver")
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := newTestWorld()
	a := w.CreateObstacle("a", 0, 0, 10, 10)
	h := a.Handle()
	w.RemoveBody("a")
	b := w.CreateObstacle("b", 0, 0, 10, 10)

	if b.Handle().index != h.index {
		t.Fatalf("expected slot reuse, got index %d vs %d", b.Handle().index, h.index)
	}
	if _, ok := w.BodyByHandle(h); ok {
		t.Error("stale handle resolved after slot reuse")
	}
	if got, ok := w.BodyByHandle(b.Handle()); !ok || got != b {
		t.Error("fresh handle should resolve")
	}
	if !(Handle{}).IsZero() {
		t.Error("zero handle should report IsZero")
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	w := newTestWorld()

	w.SetVelocity("ghost", core.V(1, 1))
	w.SetPosition("ghost", core.V(1, 1))
	if _, ok := w.Velocity("ghost"); ok {
		t.Error("Velocity of unknown id should report !ok")
	}
	if _, ok := w.Position("ghost"); ok {
		t.Error("Position of unknown id should report !ok")
	}
	if _, ok := w.Angle("ghost"); ok {
		t.Error("Angle of unknown id should report !ok")
	}
	if w.IsGrounded("ghost") || w.IsTouchingWall("ghost") {
		t.Error("unknown id should never be grounded or touching a wall")
	}
}

func TestVelocityRoundTrip(t *testing.T) {
	w := newTestWorld()
	w.CreatePlayer("player", 100, 100, 32, 48)
	w.CreatePlatform("ground", 100, 500, 100, 20)

	w.SetVelocity("player", core.V(3, -2))
	v, ok := w.Velocity("player")
	if !ok || !approx(v.X, 3, 1e-9) || !approx(v.Y, -2, 1e-9) {
		t.Errorf("Velocity() = %v, %v; expected (3, -2)", v, ok)
	}

	w.SetVelocity("ground", core.V(5, 5))
	if v, _ := w.Velocity("ground"); v != (core.Vec2{}) {
		t.Errorf("static body velocity should stay zero, got %v", v)
	}

	w.SetPosition("player", core.V(250, 50))
	if p, _ := w.Position("player"); !approx(p.X, 250, 1e-9) || !approx(p.Y, 50, 1e-9) {
		t.Errorf("Position() = %v, expected (250, 50)", p)
	}
}

func TestGroundedAndWallQueries(t *testing.T) {
	w := newTestWorld()
	w.CreatePlatform("ground", 400, 500, 400, 40) // top edge at y=480, left edge at x=200

	tests := []struct {
		name     string
		x, y     float64
		grounded bool
		wall     bool
	}{
		{"resting on top", 400, 458, true, false},
		{"in the air", 400, 300, false, false},
		{"against left side", 186, 500, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w.CreatePlayer("player", tc.x, tc.y, 32, 48)
			if got := w.IsGrounded("player"); got != tc.grounded {
				t.Errorf("IsGrounded() = %v, expected %v", got, tc.grounded)
			}
			if got := w.IsTouchingWall("player"); got != tc.wall {
				t.Errorf("IsTouchingWall() = %v, expected %v", got, tc.wall)
			}
		})
	}
}

func TestGroundedIgnoresNonPlatforms(t *testing.T) {
	w := newTestWorld()
	w.CreateObstacle("crate", 400, 500, 400, 40)
	w.CreatePlayer("player", 400, 458, 32, 48)

	if w.IsGrounded("player") {
		t.Error("obstacles should not count as ground")
	}
}

func TestPlayerLandsOnPlatform(t *testing.T) {
	w := newTestWorld()
	w.CreatePlatform("ground", 400, 500, 400, 40)
	w.CreatePlayer("player", 400, 440, 32, 48)

	if w.IsGrounded("player") {
		t.Fatal("player should start airborne")
	}
	for i := 0; i < 120; i++ {
		w.Step()
	}

	if !w.IsGrounded("player") {
		t.Error("player should be grounded after falling onto the platform")
	}
	p, _ := w.Position("player")
	if !approx(p.Y, 456, 2) {
		t.Errorf("player y = %f, expected to rest near 456", p.Y)
	}
}

func TestUpdateFixedTimestep(t *testing.T) {
	w := newTestWorld()
	ts := w.Config().Timestep

	if n := w.Update(0); n != 0 {
		t.Fatalf("first Update should only prime the clock, stepped %d", n)
	}
	if n := w.Update(ts); n != 1 {
		t.Errorf("Update(+1 step) = %d, expected 1", n)
	}
	if n := w.Update(ts + time.Second); n != 5 {
		t.Errorf("Update(+1s) = %d, expected capped 5", n)
	}

	now := ts + time.Second
	var total int
	for i := 0; i < 3; i++ {
		now += 8 * time.Millisecond
		total += w.Update(now)
	}
	if total != 1 {
		t.Errorf("24ms of 8ms frames stepped %d times, expected 1", total)
	}

	if n := w.Update(now - time.Second); n != 0 {
		t.Errorf("backwards timestamp stepped %d times, expected 0", n)
	}
}

func TestPauseResume(t *testing.T) {
	w := newTestWorld()
	ts := w.Config().Timestep

	w.Update(0)
	w.Pause()
	if !w.Paused() {
		t.Fatal("Paused() should be true")
	}
	if n := w.Update(time.Second); n != 0 {
		t.Errorf("paused Update stepped %d times", n)
	}

	w.Resume()
	if n := w.Update(10 * time.Second); n != 0 {
		t.Errorf("first Update after Resume stepped %d times, expected 0", n)
	}
	if n := w.Update(10*time.Second + ts); n != 1 {
		t.Errorf("Update after Resume = %d, expected 1", n)
	}
}

func TestBoundsAndClear(t *testing.T) {
	w := newTestWorld()
	w.CreateBounds(50)
	w.CreatePlayer("player", 100, 100, 32, 48)
	w.CreateTrigger("coin", 200, 100, 10, 10)

	var bounds int
	for _, b := range w.AllBodies() {
		if IsBound(b.ID) {
			bounds++
			if b.Type != BodyPlatform || !b.IsStatic {
				t.Errorf("boundary %s should be a static platform", b.ID)
			}
		}
	}
	if bounds != 4 {
		t.Fatalf("expected 4 boundary walls, got %d", bounds)
	}

	w.ClearBodies()
	if w.Len() != 4 {
		t.Errorf("ClearBodies should leave only boundaries, got %d bodies", w.Len())
	}
	for _, b := range w.AllBodies() {
		if !strings.HasPrefix(b.ID, BoundPrefix) {
			t.Errorf("unexpected survivor %s", b.ID)
		}
	}

	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Clear should remove everything, got %d", w.Len())
	}
}

func TestVerticesFollowGeometry(t *testing.T) {
	w := newTestWorld()
	box := w.CreatePlatform("box", 100, 100, 40, 20)
	ball := w.CreateCircle("ball", 0, 0, 10)

	verts := box.Vertices()
	if len(verts) != 4 {
		t.Fatalf("rectangle should have 4 vertices, got %d", len(verts))
	}
	want := core.Bounds{MinX: 80, MinY: 90, MaxX: 120, MaxY: 110}
	got := box.Bounds()
	if !approx(got.MinX, want.MinX, 1e-9) || !approx(got.MaxY, want.MaxY, 1e-9) {
		t.Errorf("Bounds() = %+v, expected %+v", got, want)
	}

	if len(ball.Vertices()) != circleSegments {
		t.Errorf("circle should expose %d vertices, got %d", circleSegments, len(ball.Vertices()))
	}
	for _, v := range ball.Vertices() {
		if !approx(v.Len(), 10, 1e-9) {
			t.Errorf("circle vertex %v not on radius", v)
		}
	}
}

func TestSerialize(t *testing.T) {
	w := newTestWorld()
	w.CreatePlayer("player", 100, 100, 32, 48)
	w.CreateCircle("ball", 50, 50, 5)

	snap := w.Serialize()
	if len(snap.Bodies) != 2 {
		t.Fatalf("Serialize() bodies = %d, expected 2", len(snap.Bodies))
	}
	if snap.Config.Width != 800 || snap.Config.Gravity.Y != 1 {
		t.Errorf("unexpected config snapshot %+v", snap.Config)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	for _, want := range []string{`"type":"player"`, `"shape":"circle"`, `"timestepMs"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("serialized world missing %s", want)
		}
	}
}
