// Package input unifies keyboard, mouse and touch events into per-frame
// logical action snapshots with edge detection, a virtual joystick and
// swipe and pinch gestures.
package input

import "time"

// EventKind identifies a raw device event.
type EventKind uint8

const (
	KeyDown EventKind = iota
	KeyUp
	MouseDown
	MouseUp
	MouseMove
	TouchStart
	TouchMove
	TouchEnd
	// Blur means the window lost focus; held keys are dropped.
	Blur

	numEventKinds
)

// Mouse buttons, numbered like DOM MouseEvent.button.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// Touch is one contact point in surface pixels.
type Touch struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Event is a raw device event delivered by an EventTarget.
type Event struct {
	Kind EventKind
	// Code is a physical key code such as "KeyA" or "ArrowLeft".
	Code   string
	Repeat bool
	Button int
	// X and Y are the pointer position relative to the surface.
	X, Y float64
	// Touches lists every contact still on the surface after the event.
	Touches []Touch
	// Changed lists the contacts this event is about.
	Changed []Touch
	// Time is the host timestamp of the event.
	Time time.Duration
}

// Listener receives events.
type Listener func(Event)

// EventTarget is anything events can be listened to on. Calling the
// returned cancel function removes the listener.
type EventTarget interface {
	Listen(kind EventKind, fn Listener) (cancel func())
}

// Surface is the rendering surface pointer and touch events arrive on.
type Surface interface {
	EventTarget
	Size() (w, h float64)
}

type listener struct {
	id int
	fn Listener
}

// Dispatcher is an in-memory EventTarget. The zero value is ready to use.
type Dispatcher struct {
	listeners [numEventKinds][]listener
	next      int
}

// Listen registers fn for kind.
func (d *Dispatcher) Listen(kind EventKind, fn Listener) func() {
	if kind >= numEventKinds {
		return func() {}
	}
	d.next++
	id := d.next
	d.listeners[kind] = append(d.listeners[kind], listener{id: id, fn: fn})

	cancelled := false
	return func() {
		if cancelled {
			return
		}
		cancelled = true
		list := d.listeners[kind]
		for i, l := range list {
			if l.id == id {
				d.listeners[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every listener of its kind.
func (d *Dispatcher) Emit(ev Event) {
	if ev.Kind >= numEventKinds {
		return
	}
	for _, l := range append([]listener(nil), d.listeners[ev.Kind]...) {
		l.fn(ev)
	}
}

// Count returns the number of registered listeners across all kinds.
func (d *Dispatcher) Count() int {
	n := 0
	for _, list := range d.listeners {
		n += len(list)
	}
	return n
}

// Canvas is a Dispatcher with a size, the in-memory Surface.
type Canvas struct {
	Dispatcher
	w, h float64
}

// NewCanvas creates a surface of the given pixel size.
func NewCanvas(w, h float64) *Canvas {
	return &Canvas{w: w, h: h}
}

// Size returns the surface size in pixels.
func (c *Canvas) Size() (float64, float64) {
	return c.w, c.h
}

// SetSize changes the surface size.
func (c *Canvas) SetSize(w, h float64) {
	c.w, c.h = w, h
}
