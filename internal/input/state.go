package input

import "github.com/vovakirdan/playforge/internal/core"

// MouseState is the pointer as of the last event.
type MouseState struct {
	Position   core.Vec2 `json:"position"`
	Normalized core.Vec2 `json:"normalized"`
	Left       bool      `json:"left"`
	Right      bool      `json:"right"`
	Dragging   bool      `json:"dragging"`
	DragStart  core.Vec2 `json:"dragStart"`
	DragDelta  core.Vec2 `json:"dragDelta"`
}

// TouchPoint tracks one contact from its start.
type TouchPoint struct {
	ID    int       `json:"id"`
	Start core.Vec2 `json:"start"`
	Pos   core.Vec2 `json:"pos"`
}

// PinchState is active while exactly two touches are down.
type PinchState struct {
	Active          bool      `json:"active"`
	InitialDistance float64   `json:"initialDistance"`
	Scale           float64   `json:"scale"`
	Center          core.Vec2 `json:"center"`
}

// SwipeState describes a swipe recognised on the last frame.
type SwipeState struct {
	Detected  bool    `json:"detected"`
	Direction string  `json:"direction,omitempty"` // up, down, left or right
	Distance  float64 `json:"distance"`
	Velocity  float64 `json:"velocity"` // px/ms
}

// TouchState groups touch-derived data.
type TouchState struct {
	Active     []TouchPoint `json:"active"`
	Primary    TouchPoint   `json:"primary"`
	HasPrimary bool         `json:"hasPrimary"`
	Pinch      PinchState   `json:"pinch"`
	Swipe      SwipeState   `json:"swipe"`
}

// JoystickState is the virtual stick driven by a left-half touch.
type JoystickState struct {
	Active    bool      `json:"active"`
	Origin    core.Vec2 `json:"origin"`
	Angle     float64   `json:"angle"`
	Magnitude float64   `json:"magnitude"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
}

// State is an immutable per-frame input snapshot.
type State struct {
	Actions      core.ActionSet `json:"actions"`
	JustPressed  core.ActionSet `json:"justPressed"`
	JustReleased core.ActionSet `json:"justReleased"`
	Mouse        MouseState     `json:"mouse"`
	Touch        TouchState     `json:"touch"`
	Joystick     JoystickState  `json:"joystick"`
	// Movement is the unit-or-smaller direction requested this frame.
	Movement core.Vec2 `json:"movement"`
}

// Held reports whether a is currently held.
func (s State) Held(a core.Action) bool {
	return s.Actions.Has(a)
}

// Pressed reports whether a became held this frame.
func (s State) Pressed(a core.Action) bool {
	return s.JustPressed.Has(a)
}

// Released reports whether a stopped being held this frame.
func (s State) Released(a core.Action) bool {
	return s.JustReleased.Has(a)
}
