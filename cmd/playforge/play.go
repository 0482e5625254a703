package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/platform/tui"
	"github.com/vovakirdan/playforge/internal/session"
	"github.com/vovakirdan/playforge/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Preview a scene in the terminal",
	Long: `Start a terminal preview of the specified scene.

Controls:
  Arrows/WASD  - Move
  Space        - Jump
  Z/Enter      - Action
  X            - Secondary
  P/Esc        - Pause
  R            - Reset
  Enter        - Skip intro
  F2           - Toggle debug overlay
  Ctrl+S       - Save screenshot
  Ctrl+C       - Quit

Examples:
  playforge play meadow
  playforge play --genre top-down
  playforge play --level ./my-level.yaml
  playforge play meadow --config ./floaty.toml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addSceneFlags(playCmd)
}

// terminalConfig sizes a runtime config to the terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(cmd *cobra.Command, args []string) {
	opts, err := sessionOptions(args)
	if err != nil {
		fail("%v", err)
	}
	sess, err := session.Open(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'playforge list' to see available scenes.")
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - preview still works
		store = nil
	}

	runErr := tui.Run(sess, store, terminalConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running preview: %v", runErr)
	}
}
