package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{"letter", runes("a"), "KeyA", true},
		{"shifted letter", runes("W"), "KeyW", true},
		{"digit", runes("7"), "Digit7", true},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, "ArrowLeft", true},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, "ArrowUp", true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "Space", true},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, "Escape", true},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "Enter", true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, "", false},
		{"punctuation", runes("?"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyCode(tt.msg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KeyCode() = %q, %v; expected %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeyAdapterSynthesisesRelease(t *testing.T) {
	k := NewKeyAdapter()
	var downs, ups, repeats int
	k.Listen(input.KeyDown, func(ev input.Event) {
		downs++
		if ev.Repeat {
			repeats++
		}
	})
	k.Listen(input.KeyUp, func(input.Event) { ups++ })

	k.Press(runes("d"), 0)
	k.Press(runes("d"), 100*time.Millisecond)
	if downs != 2 || repeats != 1 {
		t.Errorf("downs = %d repeats = %d, expected 2 and 1", downs, repeats)
	}

	k.Expire(200 * time.Millisecond)
	if ups != 0 || k.Held() != 1 {
		t.Errorf("released too early: ups = %d held = %d", ups, k.Held())
	}

	k.Expire(250 * time.Millisecond)
	if ups != 1 || k.Held() != 0 {
		t.Errorf("expected release after hold window: ups = %d held = %d", ups, k.Held())
	}

	if _, ok := k.Press(tea.KeyMsg{Type: tea.KeyCtrlC}, 0); ok {
		t.Error("unmapped key should be ignored")
	}
}

func TestKeyAdapterDrivesManager(t *testing.T) {
	k := NewKeyAdapter()
	m := input.NewManager(input.DefaultBindings())
	m.Attach(input.NewCanvas(800, 600), k)

	k.Press(tea.KeyMsg{Type: tea.KeyRight}, 0)
	m.Update()
	if st := m.State(); !st.Pressed(core.ActionMoveRight) || st.Movement.X != 1 {
		t.Errorf("expected moveRight pressed, got %+v", st.Actions)
	}

	k.Expire(keyHold)
	m.Update()
	if st := m.State(); !st.Released(core.ActionMoveRight) || st.Held(core.ActionMoveRight) {
		t.Errorf("expected moveRight released, got %+v", st.Actions)
	}

	k.Press(runes("a"), time.Second)
	k.ReleaseAll(time.Second)
	m.Update()
	if st := m.State(); st.Held(core.ActionMoveLeft) || k.Held() != 0 {
		t.Error("blur should drop held keys")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runes("q"), MenuActionQuit},
		{runes("z"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}
