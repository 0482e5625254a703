package input

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/playforge/internal/core"
)

const (
	// DragThreshold is how far the mouse must move with a button down before
	// the gesture counts as a drag.
	DragThreshold = 5.0
	// JoystickRadius is the touch distance mapped to full stick deflection.
	JoystickRadius = 60.0
	// JoystickAxisThreshold is the per-axis deflection that triggers a
	// directional action.
	JoystickAxisThreshold = 0.3
	// JoystickDeadMagnitude is the deflection below which the keyboard keeps
	// control of movement.
	JoystickDeadMagnitude = 0.1
	// SwipeMinDistance and SwipeMinVelocity (px/ms) gate swipe recognition.
	SwipeMinDistance = 50.0
	SwipeMinVelocity = 0.3
)

// Manager turns raw events into per-frame action snapshots.
// It is not safe for concurrent use; feed it from the frame goroutine.
type Manager struct {
	bindings Bindings
	enabled  bool
	logger   *log.Logger

	surface Surface
	att     *Attachment

	held map[string]bool

	// Per-source action sets; the frame set is their union.
	keys, mouseActs, touchActs core.ActionSet
	// pulse holds one-frame presses from gestures.
	pulse core.ActionSet

	previous, current         core.ActionSet
	justPressed, justReleased core.ActionSet

	mouse    MouseState
	gesture  touchTracker
	joystick JoystickState
	swipe    SwipeState
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an enabled, detached manager. Nil bindings use DefaultBindings.
func NewManager(bindings Bindings, opts ...Option) *Manager {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	m := &Manager{
		bindings: bindings.Clone(),
		enabled:  true,
		logger:   log.New(io.Discard),
		held:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attachment is the set of listeners one Attach call installed.
type Attachment struct {
	m        *Manager
	cancels  []func()
	released bool
}

// Release removes the listeners and resets the manager's state.
// Calls after the first are no-ops.
func (a *Attachment) Release() {
	if a == nil || a.released {
		return
	}
	a.released = true
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil
	if a.m.att == a {
		a.m.att = nil
		a.m.surface = nil
	}
	a.m.Reset()
}

// Released reports whether Release has run.
func (a *Attachment) Released() bool {
	return a.released
}

// Attach listens for keys on keyboard and for pointer and touch events on
// surface. Any previous attachment is released first.
func (m *Manager) Attach(surface Surface, keyboard EventTarget) *Attachment {
	m.Detach()

	a := &Attachment{m: m}
	on := func(t EventTarget, kind EventKind, fn Listener) {
		if t != nil {
			a.cancels = append(a.cancels, t.Listen(kind, fn))
		}
	}
	on(keyboard, KeyDown, m.onKeyDown)
	on(keyboard, KeyUp, m.onKeyUp)
	on(keyboard, Blur, func(Event) { m.releaseKeys() })
	if surface != nil {
		on(surface, MouseDown, m.onMouseDown)
		on(surface, MouseUp, m.onMouseUp)
		on(surface, MouseMove, m.onMouseMove)
		on(surface, TouchStart, m.onTouchStart)
		on(surface, TouchMove, m.onTouchMove)
		on(surface, TouchEnd, m.onTouchEnd)
	}

	m.surface = surface
	m.att = a
	m.logger.Debug("input attached", "listeners", len(a.cancels))
	return a
}

// Detach releases the current attachment, if any, and resets all state.
func (m *Manager) Detach() {
	if m.att != nil {
		m.att.Release()
		return
	}
	m.Reset()
}

// Attached reports whether the manager is listening to a surface.
func (m *Manager) Attached() bool {
	return m.att != nil
}

// SetEnabled toggles event processing. Disabling resets all state.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled = enabled
	if !enabled {
		m.Reset()
	}
}

// Enabled reports whether events are processed.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Bindings returns a copy of the key table.
func (m *Manager) Bindings() Bindings {
	return m.bindings.Clone()
}

// SetBindings replaces the key table and drops held keys.
func (m *Manager) SetBindings(b Bindings) {
	m.bindings = b.Clone()
	m.releaseKeys()
}

// Reset clears every held key, action, edge and gesture.
func (m *Manager) Reset() {
	clear(m.held)
	m.keys, m.mouseActs, m.touchActs, m.pulse = 0, 0, 0, 0
	m.previous, m.current = 0, 0
	m.justPressed, m.justReleased = 0, 0
	m.mouse = MouseState{}
	m.gesture = touchTracker{}
	m.joystick = JoystickState{}
	m.swipe = SwipeState{}
}

// Update closes the frame: edges are the XOR of this frame's actions against
// the previous frame's, then the previous set becomes the current one.
func (m *Manager) Update() {
	m.current = m.keys | m.mouseActs | m.touchActs
	pressed, released := m.current.Diff(m.previous)

	// Gesture pulses are pressed for exactly this frame.
	pressed |= m.pulse
	released &^= m.pulse
	m.pulse = 0

	m.justPressed, m.justReleased = pressed, released
	m.previous = m.current
	m.swipe = m.gesture.takeSwipe()
}

// State returns a snapshot of the last Update plus live pointer data.
func (m *Manager) State() State {
	return State{
		Actions:      m.current,
		JustPressed:  m.justPressed,
		JustReleased: m.justReleased,
		Mouse:        m.mouse,
		Touch:        m.gesture.snapshot(m.swipe),
		Joystick:     m.joystick,
		Movement:     m.movement(),
	}
}

func (m *Manager) movement() core.Vec2 {
	if m.joystick.Active && m.joystick.Magnitude > JoystickDeadMagnitude {
		return core.V(m.joystick.X, m.joystick.Y)
	}
	var v core.Vec2
	if m.current.Has(core.ActionMoveLeft) {
		v.X--
	}
	if m.current.Has(core.ActionMoveRight) {
		v.X++
	}
	if m.current.Has(core.ActionMoveUp) {
		v.Y--
	}
	if m.current.Has(core.ActionMoveDown) {
		v.Y++
	}
	if v.X != 0 && v.Y != 0 {
		v = v.Normalize()
	}
	return v
}

func (m *Manager) onKeyDown(ev Event) {
	if !m.enabled {
		return
	}
	a, ok := m.bindings[ev.Code]
	if !ok {
		return
	}
	m.held[ev.Code] = true
	m.keys = m.keys.With(a)
}

func (m *Manager) onKeyUp(ev Event) {
	if !m.enabled {
		return
	}
	a, ok := m.bindings[ev.Code]
	if !ok {
		return
	}
	delete(m.held, ev.Code)
	for code := range m.held {
		if m.bindings[code] == a {
			return
		}
	}
	m.keys = m.keys.Without(a)
}

func (m *Manager) releaseKeys() {
	clear(m.held)
	m.keys = 0
}

func (m *Manager) surfaceSize() (float64, float64) {
	if m.surface == nil {
		return 0, 0
	}
	return m.surface.Size()
}

func (m *Manager) onMouseDown(ev Event) {
	if !m.enabled {
		return
	}
	m.trackPointer(ev)
	switch ev.Button {
	case ButtonLeft:
		m.mouse.Left = true
		m.mouseActs = m.mouseActs.With(core.ActionAction)
	case ButtonRight:
		m.mouse.Right = true
		m.mouseActs = m.mouseActs.With(core.ActionSecondary)
	default:
		return
	}
	m.mouse.DragStart = m.mouse.Position
	m.mouse.DragDelta = core.Vec2{}
	m.mouse.Dragging = false
}

func (m *Manager) onMouseUp(ev Event) {
	if !m.enabled {
		return
	}
	m.trackPointer(ev)
	switch ev.Button {
	case ButtonLeft:
		m.mouse.Left = false
		m.mouseActs = m.mouseActs.Without(core.ActionAction)
	case ButtonRight:
		m.mouse.Right = false
		m.mouseActs = m.mouseActs.Without(core.ActionSecondary)
	}
	if !m.mouse.Left && !m.mouse.Right {
		m.mouse.Dragging = false
	}
}

func (m *Manager) onMouseMove(ev Event) {
	if !m.enabled {
		return
	}
	m.trackPointer(ev)
	if !m.mouse.Left && !m.mouse.Right {
		return
	}
	m.mouse.DragDelta = m.mouse.Position.Sub(m.mouse.DragStart)
	if !m.mouse.Dragging && m.mouse.DragDelta.Len() > DragThreshold {
		m.mouse.Dragging = true
	}
}

func (m *Manager) trackPointer(ev Event) {
	m.mouse.Position = core.V(ev.X, ev.Y)
	if w, h := m.surfaceSize(); w > 0 && h > 0 {
		m.mouse.Normalized = core.V(
			core.ClampF(ev.X/w, 0, 1),
			core.ClampF(ev.Y/h, 0, 1),
		)
	}
}

// joystickFrom sets stick state and directional touch actions from a
// contact's offset to its start.
func (m *Manager) joystickFrom(p TouchPoint) {
	d := p.Pos.Sub(p.Start)
	dist := d.Len()
	angle := math.Atan2(d.Y, d.X)
	mag := math.Min(dist/JoystickRadius, 1)

	m.joystick = JoystickState{
		Active:    true,
		Origin:    p.Start,
		Angle:     angle,
		Magnitude: mag,
	}
	if dist > 0 {
		m.joystick.X = math.Cos(angle) * mag
		m.joystick.Y = math.Sin(angle) * mag
	}

	axis := func(a core.Action, on bool) {
		if on {
			m.touchActs = m.touchActs.With(a)
		} else {
			m.touchActs = m.touchActs.Without(a)
		}
	}
	axis(core.ActionMoveLeft, m.joystick.X < -JoystickAxisThreshold)
	axis(core.ActionMoveRight, m.joystick.X > JoystickAxisThreshold)
	axis(core.ActionMoveUp, m.joystick.Y < -JoystickAxisThreshold)
	axis(core.ActionMoveDown, m.joystick.Y > JoystickAxisThreshold)
}
