package physics

import (
	"github.com/vovakirdan/playforge/internal/core"
)

// BodySnapshot is the serialisable form of a Body.
type BodySnapshot struct {
	ID       string      `json:"id"`
	Type     BodyType    `json:"type"`
	Shape    ShapeKind   `json:"shape"`
	Position core.Vec2   `json:"position"`
	Velocity core.Vec2   `json:"velocity"`
	Angle    float64     `json:"angle"`
	Width    float64     `json:"width,omitempty"`
	Height   float64     `json:"height,omitempty"`
	Radius   float64     `json:"radius,omitempty"`
	IsStatic bool        `json:"isStatic"`
	IsSensor bool        `json:"isSensor"`
	Vertices []core.Vec2 `json:"vertices"`
	UserData any         `json:"userData,omitempty"`
}

// ConfigSnapshot is the serialisable form of Config.
type ConfigSnapshot struct {
	Gravity    core.Vec2 `json:"gravity"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	TimestepMS float64   `json:"timestepMs"`
}

// Snapshot is a JSON-compatible copy of the whole world.
type Snapshot struct {
	Config ConfigSnapshot `json:"config"`
	Bodies []BodySnapshot `json:"bodies"`
}

// Snap captures one body.
func (b *Body) Snap() BodySnapshot {
	return BodySnapshot{
		ID:       b.ID,
		Type:     b.Type,
		Shape:    b.Shape,
		Position: b.Position(),
		Velocity: b.Velocity(),
		Angle:    b.Angle(),
		Width:    b.Width,
		Height:   b.Height,
		Radius:   b.Radius,
		IsStatic: b.IsStatic,
		IsSensor: b.IsSensor,
		Vertices: b.Vertices(),
		UserData: b.UserData,
	}
}

// Serialize captures the configuration and every live body.
func (w *World) Serialize() Snapshot {
	bodies := w.AllBodies()
	snap := Snapshot{
		Config: ConfigSnapshot{
			Gravity:    w.cfg.Gravity,
			Width:      w.cfg.Width,
			Height:     w.cfg.Height,
			TimestepMS: float64(w.cfg.Timestep.Microseconds()) / 1000,
		},
		Bodies: make([]BodySnapshot, 0, len(bodies)),
	}
	for _, b := range bodies {
		snap.Bodies = append(snap.Bodies, b.Snap())
	}
	return snap
}
