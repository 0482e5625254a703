// Package mechanics holds the genre templates that turn an input snapshot
// into player motion. Each template owns the rules for one genre; the
// engine owns the loop that calls them.
package mechanics

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/physics"
)

// Type identifies a genre template.
type Type uint8

const (
	Platformer Type = iota
	TopDown
	Puzzle
	Shooter
	FPS
	ThirdPerson

	numTypes
)

var typeNames = [numTypes]string{
	Platformer:  "platformer",
	TopDown:     "top-down",
	Puzzle:      "puzzle",
	Shooter:     "shooter",
	FPS:         "fps",
	ThirdPerson: "third-person",
}

var typeTitles = [numTypes]string{
	Platformer:  "Platformer",
	TopDown:     "Top-Down",
	Puzzle:      "Puzzle",
	Shooter:     "Shooter",
	FPS:         "First Person",
	ThirdPerson: "Third Person",
}

// Types returns every genre in declaration order.
func Types() []Type {
	out := make([]Type, 0, numTypes)
	for t := Type(0); t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the genre name used in configs and on the command line.
func (t Type) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return "unknown"
}

// Title returns a human-readable genre name.
func (t Type) Title() string {
	if t < numTypes {
		return typeTitles[t]
	}
	return "Unknown"
}

// Valid reports whether t is a known genre.
func (t Type) Valid() bool {
	return t < numTypes
}

// ParseType maps a genre name to a Type. Dashes, underscores and case are
// ignored, so "topDown", "top_down" and "TOP-DOWN" all resolve.
func ParseType(s string) (Type, bool) {
	key := normalizeName(s)
	for i, n := range typeNames {
		if normalizeName(n) == key {
			return Type(i), true
		}
	}
	return Platformer, false
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, ok := ParseType(string(b))
	if !ok {
		return fmt.Errorf("mechanics: unknown type %q", string(b))
	}
	*t = v
	return nil
}

// Template returns a fresh template for the genre. Unknown values fall back
// to the platformer.
func (t Type) Template() Template {
	switch t {
	case Platformer:
		return &platformer{}
	case TopDown:
		return &mover{kind: TopDown}
	case Puzzle:
		return &puzzle{}
	case Shooter:
		return &shooter{mover: mover{kind: Shooter}}
	case FPS:
		return &mover{kind: FPS}
	case ThirdPerson:
		return &thirdPerson{}
	default:
		return &platformer{}
	}
}

// WorldConfig returns the physics settings for the genre's default tuning.
func (t Type) WorldConfig() physics.Config {
	return DefaultConfig(t).World()
}

// Bindings returns the key bindings the genre ships with.
func (t Type) Bindings() input.Bindings {
	b := input.DefaultBindings()
	switch t {
	case Platformer, ThirdPerson:
		b["ArrowUp"] = core.ActionJump
		b["KeyW"] = core.ActionJump
	case Shooter:
		b["Space"] = core.ActionAction
		b["KeyJ"] = core.ActionAction
	case FPS:
		b["KeyE"] = core.ActionAction
		b["KeyQ"] = core.ActionSecondary
	}
	return b
}
