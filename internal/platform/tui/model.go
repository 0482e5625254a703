package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/playforge/internal/config"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/session"
	"github.com/vovakirdan/playforge/internal/storage"
)

// wheelZoom is the zoom factor applied per mouse wheel notch.
const wheelZoom = 1.1

// previewKeys are the host keys shown in the help bar.
type previewKeys struct {
	Move   key.Binding
	Jump   key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Debug  key.Binding
	Skip   key.Binding
	Back   key.Binding
	Quit   key.Binding
	inMenu bool
}

func newPreviewKeys(inMenu bool) previewKeys {
	return previewKeys{
		Move:   key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←↑→↓/wasd", "move")),
		Jump:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "jump")),
		Pause:  key.NewBinding(key.WithKeys("esc", "p"), key.WithHelp("p", "pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Debug:  key.NewBinding(key.WithKeys(keyDebug), key.WithHelp(keyDebug, "debug")),
		Skip:   key.NewBinding(key.WithKeys(keySkip), key.WithHelp(keySkip, "skip intro")),
		Back:   key.NewBinding(key.WithKeys(keyBack), key.WithHelp(keyBack, "menu")),
		Quit:   key.NewBinding(key.WithKeys(keyQuit), key.WithHelp(keyQuit, "quit")),
		inMenu: inMenu,
	}
}

// ShortHelp returns key bindings for the short help view.
func (k previewKeys) ShortHelp() []key.Binding {
	out := []key.Binding{k.Move, k.Jump, k.Pause, k.Reset, k.Debug}
	if k.inMenu {
		out = append(out, k.Back)
	}
	return append(out, k.Quit)
}

// FullHelp returns key bindings for the full help view.
func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Skip}}
}

// Model is the Bubble Tea model previewing one session.
type Model struct {
	sess    *session.Session
	screen  *core.Screen
	store   *storage.Store
	config  core.RuntimeConfig
	keys    *KeyAdapter
	canvas  *input.Canvas
	help    help.Model
	hostKey previewKeys
	started time.Time
	now     time.Duration

	debug      bool
	inMenu     bool
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewModel creates a preview of sess sized to cfg. inMenu enables the
// back-to-menu key.
func NewModel(sess *session.Session, store *storage.Store, cfg core.RuntimeConfig, inMenu bool) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.CellW <= 0 || cfg.CellH <= 0 {
		d := core.DefaultConfig()
		cfg.CellW, cfg.CellH = d.CellW, d.CellH
	}

	m := Model{
		sess:    sess,
		screen:  core.NewScreen(cfg.ScreenW, playRows(cfg.ScreenH)),
		store:   store,
		config:  cfg,
		keys:    NewKeyAdapter(),
		canvas:  input.NewCanvas(0, 0),
		help:    help.New(),
		hostKey: newPreviewKeys(inMenu),
		started: time.Now(),
		debug:   sess.Config.Mechanics.Debug,
		inMenu:  inMenu,
	}
	m.help.Width = cfg.ScreenW
	m.resize()
	sess.Engine.Attach(m.canvas, m.keys)
	return m
}

// playRows leaves the last terminal row for the help bar.
func playRows(h int) int {
	if h > 1 {
		return h - 1
	}
	return h
}

// resize fits the canvas and camera to the screen.
func (m *Model) resize() {
	w := float64(m.screen.Width()) * m.config.CellW
	h := float64(m.screen.Height()) * m.config.CellH
	m.canvas.SetSize(w, h)
	if w > 0 && h > 0 {
		m.sess.Camera.Resize(w, h)
	}
}

// Init starts the session and the tick loop.
func (m Model) Init() tea.Cmd {
	m.sess.Start()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		m.keys.ReleaseAll(m.now)
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playRows(msg.Height))
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		m.quitting = true
		return m, tea.Quit
	case keyBack:
		m.backToMenu = true
		if !m.inMenu {
			return m, tea.Quit
		}
		return m, nil
	case keyScreenshot:
		m.saveScreenshot()
		return m, nil
	case keyDebug:
		m.debug = !m.debug
		return m, nil
	case keySkip:
		if m.sess.InIntro() {
			m.sess.SkipIntro()
			return m, nil
		}
	}

	m.keys.Press(msg, m.now)
	return m, nil
}

// handleMouse forwards the pointer to the canvas in surface pixels, and
// zooms on the wheel.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.sess.Camera.ZoomTo(m.sess.Camera.State().TargetZoom * wheelZoom)
		return
	case tea.MouseButtonWheelDown:
		m.sess.Camera.ZoomTo(m.sess.Camera.State().TargetZoom / wheelZoom)
		return
	}

	ev := input.Event{
		X:    (float64(msg.X) + 0.5) * m.config.CellW,
		Y:    (float64(msg.Y) + 0.5) * m.config.CellH,
		Time: m.now,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = input.MouseDown
	case tea.MouseActionRelease:
		ev.Kind = input.MouseUp
	default:
		ev.Kind = input.MouseMove
	}
	switch msg.Button {
	case tea.MouseButtonRight:
		ev.Button = input.ButtonRight
	case tea.MouseButtonMiddle:
		ev.Button = input.ButtonMiddle
	default:
		ev.Button = input.ButtonLeft
	}
	m.canvas.Emit(ev)
}

// handleTick runs one host frame.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	now := t.Sub(m.started)
	if now < m.now {
		now = m.now
	}
	m.now = now

	m.keys.Expire(now)
	m.sess.Advance(now)

	st := m.sess.Engine.State()
	switch {
	case st.IsGameOver && !m.scoreSaved:
		m.saveScore(st)
		m.scoreSaved = true
	case !st.IsGameOver:
		m.scoreSaved = false
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore records a finished run.
func (m Model) saveScore(st mechanics.GameState) {
	if m.store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(storage.ScoreEntry{
		SceneID:      m.sess.SceneID(),
		Genre:        m.sess.Config.Mechanics.Type.String(),
		Score:        st.Score,
		Collectibles: st.Collectibles,
		Duration:     st.Time,
	})
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(config.Dir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.sess.SceneID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// draw renders the session into the screen buffer.
func (m *Model) draw() {
	m.screen.Clear()
	eng := m.sess.Engine
	Rasterize(m.screen, eng.World(), m.sess.Camera)
	if m.debug {
		if dr, ok := eng.Template().(mechanics.DebugRenderer); ok {
			dr.RenderDebug(m.screen, eng.World(), eng.State())
		}
	}
	DrawHUD(m.screen, m.sess.Title(), eng.State(), eng.Status())
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.hostKey)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Close detaches input and disposes the session.
func (m Model) Close() {
	m.sess.Close()
}

// Run previews sess until the user quits.
func Run(sess *session.Session, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(sess, store, cfg, false)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	_, err := p.Run()
	return err
}
