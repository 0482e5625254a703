package core

import (
	"math/bits"
	"strings"
)

// Action is a logical input intent, abstracted from the device that produced it.
type Action uint8

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionJump
	ActionAction
	ActionSecondary
	ActionPause
	ActionReset

	// NumActions is the number of defined actions.
	NumActions
)

var actionNames = [NumActions]string{
	ActionMoveLeft:  "moveLeft",
	ActionMoveRight: "moveRight",
	ActionMoveUp:    "moveUp",
	ActionMoveDown:  "moveDown",
	ActionJump:      "jump",
	ActionAction:    "action",
	ActionSecondary: "secondary",
	ActionPause:     "pause",
	ActionReset:     "reset",
}

// String returns the camelCase action name used in bindings files.
func (a Action) String() string {
	if a < NumActions {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction maps a name produced by String back to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if strings.EqualFold(n, name) {
			return Action(i), true
		}
	}
	return 0, false
}

// ActionSet is a fixed-size bitset of actions.
// Edge detection between two frames is a single XOR.
type ActionSet uint32

// SetOf builds a set from the given actions.
func SetOf(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return a < NumActions && s&(1<<a) != 0
}

// With returns the set with a added.
func (s ActionSet) With(a Action) ActionSet {
	if a >= NumActions {
		return s
	}
	return s | 1<<a
}

// Without returns the set with a removed.
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << a)
}

// Len returns the number of actions in the set.
func (s ActionSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Diff returns the actions entering and leaving the set between prev and s.
// The two results never share an action.
func (s ActionSet) Diff(prev ActionSet) (pressed, released ActionSet) {
	changed := s ^ prev
	return changed & s, changed & prev
}

// Actions lists the members in enum order.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, s.Len())
	for a := Action(0); a < NumActions; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String renders the set as "{jump,moveLeft}".
func (s ActionSet) String() string {
	names := make([]string, 0, s.Len())
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
