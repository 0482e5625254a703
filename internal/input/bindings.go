package input

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/playforge/internal/core"
)

// Bindings maps physical key codes to actions. Several keys may share an action.
type Bindings map[string]core.Action

// DefaultBindings returns arrows/WASD movement, space to jump, Z/X for the
// action buttons, Escape/P to pause and R to reset.
func DefaultBindings() Bindings {
	return Bindings{
		"ArrowLeft":  core.ActionMoveLeft,
		"KeyA":       core.ActionMoveLeft,
		"ArrowRight": core.ActionMoveRight,
		"KeyD":       core.ActionMoveRight,
		"ArrowUp":    core.ActionMoveUp,
		"KeyW":       core.ActionMoveUp,
		"ArrowDown":  core.ActionMoveDown,
		"KeyS":       core.ActionMoveDown,
		"Space":      core.ActionJump,
		"KeyZ":       core.ActionAction,
		"Enter":      core.ActionAction,
		"KeyX":       core.ActionSecondary,
		"Escape":     core.ActionPause,
		"KeyP":       core.ActionPause,
		"KeyR":       core.ActionReset,
	}
}

// Clone returns an independent copy.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// KeysFor returns the sorted key codes bound to a.
func (b Bindings) KeysFor(a core.Action) []string {
	var keys []string
	for k, v := range b {
		if v == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// ParseBindings converts a code → action-name table, as found in config
// files, into Bindings.
func ParseBindings(raw map[string]string) (Bindings, error) {
	out := make(Bindings, len(raw))
	for code, name := range raw {
		a, ok := core.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("input: unknown action %q for key %q", name, code)
		}
		out[code] = a
	}
	return out, nil
}
