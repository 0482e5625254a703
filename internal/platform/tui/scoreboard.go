package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/registry"
	"github.com/vovakirdan/playforge/internal/storage"
)

const topRuns = 50

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextGenre key.Binding
	PrevGenre key.Binding
	Open      key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGenre, k.Open, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGenre, k.PrevGenre},
		{k.Open, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		NextGenre: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next genre")),
		PrevGenre: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev genre")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "runs")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// genreGroup is one tab of the scoreboard: a genre and its scenes.
type genreGroup struct {
	genre  mechanics.Type
	scenes []registry.SceneInfo
}

// groupByGenre splits scenes into tabs in genre declaration order.
// Genres without scenes are left out.
func groupByGenre(scenes []registry.SceneInfo) []genreGroup {
	var groups []genreGroup
	for _, t := range mechanics.Types() {
		g := genreGroup{genre: t}
		for _, s := range scenes {
			if s.Genre == t {
				g.scenes = append(g.scenes, s)
			}
		}
		if len(g.scenes) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// ScoreboardModel shows per-genre scene summaries and, for one scene at a
// time, its best runs.
type ScoreboardModel struct {
	groups []genreGroup
	tab    int
	stats  map[string]*storage.SceneStats
	store  *storage.Store
	err    error

	// runsFor is the scene whose runs are open; empty on the summary.
	runsFor string
	runs    []storage.ScoreEntry

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel builds a scoreboard over scenes. A nil store shows
// every scene as unplayed.
func NewScoreboardModel(store *storage.Store, scenes []registry.SceneInfo, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		groups: groupByGenre(scenes),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		m.stats, m.err = store.AllSceneStats()
	}
	m.rebuild()
	return m
}

// summaryRow renders one scene's aggregate line.
func summaryRow(s registry.SceneInfo, st *storage.SceneStats) table.Row {
	if st == nil || st.RunsCount == 0 {
		return table.Row{s.Title, "0", "-", "-", "-", "never"}
	}
	best := "-"
	if st.BestDuration > 0 {
		best = formatClock(st.BestDuration)
	}
	return table.Row{
		s.Title,
		fmt.Sprint(st.RunsCount),
		fmt.Sprint(st.HighScore),
		fmt.Sprintf("%.1f", st.AvgScore),
		best,
		st.LastPlayed.Format("Jan 02 15:04"),
	}
}

func runRow(rank int, e storage.ScoreEntry) table.Row {
	return table.Row{
		fmt.Sprintf("#%d", rank),
		fmt.Sprint(e.Score),
		fmt.Sprint(e.Collectibles),
		formatClock(e.Duration),
		e.CreatedAt.Format("Jan 02 15:04"),
	}
}

// rebuild recreates the table for the current view and size.
func (m *ScoreboardModel) rebuild() {
	var cols []table.Column
	var rows []table.Row
	if m.runsFor != "" {
		cols = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Items", Width: 6},
			{Title: "Time", Width: 9},
			{Title: "Date", Width: 14},
		}
		for i, e := range m.runs {
			rows = append(rows, runRow(i+1, e))
		}
	} else {
		cols = []table.Column{
			{Title: "Scene", Width: 20},
			{Title: "Runs", Width: 6},
			{Title: "Best", Width: 7},
			{Title: "Avg", Width: 7},
			{Title: "Fastest", Width: 9},
			{Title: "Last played", Width: 14},
		}
		for _, s := range m.currentScenes() {
			rows = append(rows, summaryRow(s, m.stats[s.ID]))
		}
	}

	height := m.height - 9
	if height < 3 {
		height = 3
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithFocused(true), table.WithHeight(height))
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(false)
	t.SetStyles(s)
	m.table = t
}

func (m ScoreboardModel) currentScenes() []registry.SceneInfo {
	if len(m.groups) == 0 {
		return nil
	}
	return m.groups[m.tab].scenes
}

// openRuns loads the best runs of the highlighted scene.
func (m *ScoreboardModel) openRuns() {
	scenes := m.currentScenes()
	i := m.table.Cursor()
	if i < 0 || i >= len(scenes) {
		return
	}
	m.runsFor = scenes[i].ID
	m.runs = nil
	if m.store != nil {
		m.runs, m.err = m.store.TopScores(m.runsFor, topRuns)
	}
	m.rebuild()
}

func (m *ScoreboardModel) switchGenre(step int) {
	if len(m.groups) == 0 {
		return
	}
	m.tab = (m.tab + step + len(m.groups)) % len(m.groups)
	m.rebuild()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			if m.runsFor != "" {
				m.runsFor, m.runs = "", nil
				m.rebuild()
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit
		case m.runsFor != "":
			// Genre and open keys only apply to the summary.
		case key.Matches(msg, m.keys.NextGenre):
			m.switchGenre(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGenre):
			m.switchGenre(-1)
			return m, nil
		case key.Matches(msg, m.keys.Open):
			m.openRuns()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// genreTotals sums runs and finds the best score across a genre's scenes.
func (m ScoreboardModel) genreTotals(g genreGroup) (runs, best int, bestScene string) {
	for _, s := range g.scenes {
		st := m.stats[s.ID]
		if st == nil {
			continue
		}
		runs += st.RunsCount
		if st.RunsCount > 0 && (bestScene == "" || st.HighScore > best) {
			best, bestScene = st.HighScore, s.Title
		}
	}
	return runs, best, bestScene
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)

	var b strings.Builder
	b.WriteString(title.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")

	if len(m.groups) == 0 {
		b.WriteString(dim.Render(centerText("No scenes registered.", m.width)))
		return b.String()
	}

	g := m.groups[m.tab]
	if m.runsFor != "" {
		name := m.runsFor
		for _, s := range g.scenes {
			if s.ID == m.runsFor {
				name = s.Title
			}
		}
		b.WriteString(centerText(fmt.Sprintf("%s  (%s)", name, g.genre.Title()), m.width))
		b.WriteString("\n\n")
		if len(m.runs) == 0 {
			b.WriteString(centerText(box.Render(dim.Italic(true).Render("No runs recorded yet.")), m.width))
		} else {
			b.WriteString(centerText(box.Render(m.table.View()), m.width))
		}
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(box.Render(m.table.View()), m.width))
		b.WriteString("\n")
		runs, best, bestScene := m.genreTotals(g)
		footer := fmt.Sprintf("%d runs", runs)
		if bestScene != "" {
			footer += fmt.Sprintf("  best %d on %s", best, bestScene)
		}
		b.WriteString(dim.Render(centerText(footer, m.width)))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(centerText(m.err.Error(), m.width)))
	}
	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTabs draws the genre tabs, collapsing to the active one when the
// row would not fit.
func (m ScoreboardModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)

	tabs := make([]string, len(m.groups))
	for i, g := range m.groups {
		if i == m.tab {
			tabs[i] = active.Render(g.genre.Title())
		} else {
			tabs[i] = idle.Render(g.genre.Title())
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.groups[m.tab].genre.Title())
	}
	return line
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard for every registered scene.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, registry.List(), width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}

