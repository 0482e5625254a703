// playforge previews 2D game scenes in the terminal and headless.
//
// Usage:
//
//	playforge list                 - List available scenes
//	playforge play <scene>         - Preview a scene in the terminal
//	playforge menu                 - Pick scenes interactively
//	playforge run <scene>          - Run headless, optionally serving /snapshot and /ws
//	playforge export <scene>       - Write a JSON snapshot and PNG thumbnail
//	playforge suggest <text>       - Guess a genre from a description
//	playforge scores [scene]       - Show high scores
//	playforge config <genre>       - Print a genre's default config
//	playforge serve                - Start SSH server for remote previews
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Seed the camera shake
//	--db <path>     - Set database path (default: ~/.playforge/scores.db)
//	--debug         - Debug logging and overlays
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/mechanics"
	// Import scenes to register them
	_ "github.com/vovakirdan/playforge/internal/scene"
	"github.com/vovakirdan/playforge/internal/session"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagDebug  bool

	// Scene selection flags, shared by play, run and export
	flagLevel  string
	flagGenre  string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "playforge",
	Short: "Playforge - preview 2D game scenes",
	Long: `Playforge runs playable previews of 2D scenes: a physics world, input,
a camera and one of six genre templates (platformer, top-down, puzzle,
shooter, fps, third-person).

Available commands:
  list     - Show all available scenes
  play     - Preview a scene in the terminal
  menu     - Interactive scene picker
  run      - Headless run with an optional inspect server
  export   - Write a snapshot as JSON and PNG
  suggest  - Guess a genre from a description
  scores   - View high scores
  config   - Print default genre config
  serve    - Start SSH server for remote previews

Examples:
  playforge list
  playforge play meadow
  playforge play --genre shooter
  playforge run meadow --inspect 127.0.0.1:7070
  playforge export canyon --frames 120 --png canyon.png`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Camera shake seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.playforge/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug logging and overlays")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// addSceneFlags registers the flags that pick what to play.
func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLevel, "level", "", "Load the scene from a YAML level file")
	cmd.Flags().StringVar(&flagGenre, "genre", "", "Run a genre on an empty world instead of a scene")
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom genre config (YAML or TOML)")
}

// newLogger returns a stderr logger; debug level with --debug.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// sessionOptions turns the scene flags and an optional scene argument into
// session options.
func sessionOptions(args []string) (session.Options, error) {
	opts := session.Options{
		LevelFile:  flagLevel,
		ConfigPath: flagConfig,
		Debug:      flagDebug,
		Seed:       flagSeed,
	}
	if len(args) > 0 {
		opts.SceneID = args[0]
	}
	if flagGenre != "" {
		t, ok := mechanics.ParseType(flagGenre)
		if !ok {
			return opts, fmt.Errorf("unknown genre %q", flagGenre)
		}
		opts.Genre = t
	}
	if opts.SceneID == "" && opts.LevelFile == "" && flagGenre == "" {
		return opts, fmt.Errorf("name a scene, or use --level or --genre")
	}
	return opts, nil
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
