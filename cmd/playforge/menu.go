package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/platform/tui"
	"github.com/vovakirdan/playforge/internal/session"
	"github.com/vovakirdan/playforge/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenes from an interactive menu",
	Long: `Start playforge in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a scene.
After a preview ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select scene
  Tab          - Scoreboard
  Q            - Quit

Examples:
  playforge menu
  playforge menu --fps 30
  playforge menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom genre config (YAML or TOML)")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.SceneID == "" {
			break
		}

		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		sess, err := session.Open(session.Options{
			SceneID:    menuResult.SceneID,
			ConfigPath: flagConfig,
			Debug:      flagDebug,
			Seed:       seed,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scene: %v\n", err)
			continue
		}

		if err := tui.Run(sess, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running preview: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
