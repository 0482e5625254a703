package main

import (
	"testing"

	"github.com/vovakirdan/playforge/internal/mechanics"
)

func TestSessionOptions(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		level     string
		genre     string
		wantScene string
		wantGenre mechanics.Type
		wantErr   bool
	}{
		{name: "scene", args: []string{"meadow"}, wantScene: "meadow"},
		{name: "genre", genre: "top_down", wantGenre: mechanics.TopDown},
		{name: "level", level: "box.yaml"},
		{name: "nothing", wantErr: true},
		{name: "bad genre", genre: "racing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagLevel, flagGenre = tt.level, tt.genre
			defer func() { flagLevel, flagGenre = "", "" }()

			opts, err := sessionOptions(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.SceneID != tt.wantScene {
				t.Errorf("SceneID = %q, want %q", opts.SceneID, tt.wantScene)
			}
			if opts.Genre != tt.wantGenre {
				t.Errorf("Genre = %v, want %v", opts.Genre, tt.wantGenre)
			}
			if opts.LevelFile != tt.level {
				t.Errorf("LevelFile = %q, want %q", opts.LevelFile, tt.level)
			}
		})
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"0.0.0.0:2222":   "2222",
		"[::1]:2022":     "2022",
		"no-port-at-all": "no-port-at-all",
	}
	for addr, want := range tests {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"list", "play", "menu", "run", "export", "suggest", "scores", "config", "serve"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
