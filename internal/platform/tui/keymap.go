package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/playforge/internal/input"
)

// keyHold is how long a key counts as held after its last press or repeat.
// Terminals only report presses, so releases are synthesised.
const keyHold = 150 * time.Millisecond

// KeyAdapter turns Bubble Tea key messages into keyboard events for the
// input manager. It is the keyboard EventTarget of a preview.
type KeyAdapter struct {
	input.Dispatcher
	held map[string]time.Duration
}

// NewKeyAdapter creates an adapter with no keys held.
func NewKeyAdapter() *KeyAdapter {
	return &KeyAdapter{held: make(map[string]time.Duration)}
}

// Press emits a key-down for msg at host time now and reports the key code.
// Keys without a code are ignored.
func (k *KeyAdapter) Press(msg tea.KeyMsg, now time.Duration) (string, bool) {
	code, ok := KeyCode(msg)
	if !ok {
		return "", false
	}
	_, repeat := k.held[code]
	k.held[code] = now
	k.Emit(input.Event{Kind: input.KeyDown, Code: code, Repeat: repeat, Time: now})
	return code, true
}

// Expire emits key-ups for keys not seen within keyHold of now.
func (k *KeyAdapter) Expire(now time.Duration) {
	for code, last := range k.held {
		if now-last >= keyHold {
			delete(k.held, code)
			k.Emit(input.Event{Kind: input.KeyUp, Code: code, Time: now})
		}
	}
}

// ReleaseAll drops every held key, as when the terminal loses focus.
func (k *KeyAdapter) ReleaseAll(now time.Duration) {
	clear(k.held)
	k.Emit(input.Event{Kind: input.Blur, Time: now})
}

// Held returns the number of keys currently considered held.
func (k *KeyAdapter) Held() int {
	return len(k.held)
}

var namedKeys = map[string]string{
	"up":          "ArrowUp",
	"down":        "ArrowDown",
	"left":        "ArrowLeft",
	"right":       "ArrowRight",
	" ":           "Space",
	"space":       "Space",
	"esc":         "Escape",
	"enter":       "Enter",
	"tab":         "Tab",
	"backspace":   "Backspace",
	"shift+up":    "ArrowUp",
	"shift+down":  "ArrowDown",
	"shift+left":  "ArrowLeft",
	"shift+right": "ArrowRight",
}

// KeyCode maps a key message to a physical key code such as "KeyA",
// "Digit1" or "ArrowLeft".
func KeyCode(msg tea.KeyMsg) (string, bool) {
	key := msg.String()
	if code, ok := namedKeys[key]; ok {
		return code, true
	}
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return "Key" + strings.ToUpper(key), true
		case c >= 'A' && c <= 'Z':
			return "Key" + key, true
		case c >= '0' && c <= '9':
			return "Digit" + key, true
		}
	}
	return "", false
}

// Host keys handled by the preview itself rather than the engine.
const (
	keyQuit       = "ctrl+c"
	keyBack       = "ctrl+b"
	keyScreenshot = "ctrl+s"
	keyDebug      = "f2"
	keySkip       = "enter"
)

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
