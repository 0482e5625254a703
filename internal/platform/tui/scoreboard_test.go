package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/registry"
	"github.com/vovakirdan/playforge/internal/storage"
)

var boardScenes = []registry.SceneInfo{
	{ID: "meadow", Title: "Meadow", Genre: mechanics.Platformer},
	{ID: "ridge", Title: "Ridge", Genre: mechanics.Platformer},
	{ID: "arena", Title: "Arena", Genre: mechanics.Shooter},
}

func boardStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	runs := []storage.ScoreEntry{
		{SceneID: "meadow", Genre: "platformer", Score: 20, Duration: 40 * time.Second},
		{SceneID: "meadow", Genre: "platformer", Score: 45, Duration: 35 * time.Second},
		{SceneID: "arena", Genre: "shooter", Score: 75, Duration: 90 * time.Second},
	}
	for _, r := range runs {
		if _, err := store.SaveScore(r); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	return store
}

func update(m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	next, _ := m.Update(msg)
	return next.(ScoreboardModel)
}

func TestGroupByGenre(t *testing.T) {
	groups := groupByGenre(boardScenes)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, expected 2", len(groups))
	}
	if groups[0].genre != mechanics.Platformer || len(groups[0].scenes) != 2 {
		t.Errorf("first group = %v with %d scenes", groups[0].genre, len(groups[0].scenes))
	}
	if groups[1].genre != mechanics.Shooter || groups[1].scenes[0].ID != "arena" {
		t.Errorf("second group = %v %v", groups[1].genre, groups[1].scenes)
	}
}

func TestScoreboardSummary(t *testing.T) {
	m := NewScoreboardModel(boardStore(t), boardScenes, 100, 30)

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("summary rows = %d, expected 2", len(rows))
	}
	meadow := rows[0]
	if meadow[0] != "Meadow" || meadow[1] != "2" || meadow[2] != "45" || meadow[3] != "32.5" || meadow[4] != formatClock(35*time.Second) {
		t.Errorf("meadow row = %v", meadow)
	}
	if ridge := rows[1]; ridge[1] != "0" || ridge[5] != "never" {
		t.Errorf("unplayed row = %v", ridge)
	}

	runs, best, scene := m.genreTotals(m.groups[0])
	if runs != 2 || best != 45 || scene != "Meadow" {
		t.Errorf("genreTotals = %d %d %q, expected 2 45 Meadow", runs, best, scene)
	}
	if view := m.View(); !strings.Contains(view, "best 45 on Meadow") {
		t.Errorf("view missing genre footer:\n%s", view)
	}
}

func TestScoreboardGenreTabs(t *testing.T) {
	m := NewScoreboardModel(boardStore(t), boardScenes, 100, 30)

	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != 1 || m.table.Rows()[0][0] != "Arena" {
		t.Fatalf("tab = %d rows = %v, expected the shooter tab", m.tab, m.table.Rows())
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != 0 {
		t.Errorf("tab = %d, expected wrap to 0", m.tab)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != 1 {
		t.Errorf("tab = %d, expected wrap back to 1", m.tab)
	}
}

func TestScoreboardRuns(t *testing.T) {
	m := NewScoreboardModel(boardStore(t), boardScenes, 100, 30)

	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.runsFor != "meadow" {
		t.Fatalf("runsFor = %q, expected meadow", m.runsFor)
	}
	rows := m.table.Rows()
	if len(rows) != 2 || rows[0][0] != "#1" || rows[0][1] != "45" {
		t.Errorf("run rows = %v", rows)
	}

	// Genre keys are ignored while runs are open.
	m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != 0 || m.runsFor != "meadow" {
		t.Errorf("tab = %d runsFor = %q after tab in runs view", m.tab, m.runsFor)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.runsFor != "" || m.IsGoingBack() {
		t.Fatalf("esc should return to the summary, runsFor = %q", m.runsFor)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() {
		t.Error("esc on the summary should go back")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, boardScenes, 100, 30)
	if rows := m.table.Rows(); len(rows) != 2 || rows[0][5] != "never" {
		t.Errorf("rows = %v, expected unplayed scenes", rows)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.table.Rows()) != 0 || !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("runs view should be empty without a store")
	}
}
