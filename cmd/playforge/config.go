package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/config"
	"github.com/vovakirdan/playforge/internal/mechanics"
)

var flagConfigFormat string

var configCmd = &cobra.Command{
	Use:   "config <genre>",
	Short: "Print a genre's effective config",
	Long: `Print the config a genre would run with: --config if given, otherwise
~/.playforge/configs/<genre>.yaml, ./configs/<genre>.yaml, then the built-in
defaults. Redirect the output to start a custom config.

Examples:
  playforge config platformer > floaty.yaml
  playforge config shooter --format toml
  playforge config top-down --config ./my-topdown.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigFormat, "format", "yaml", "Output format: yaml or toml")
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom genre config (YAML or TOML)")
}

func runConfig(cmd *cobra.Command, args []string) {
	t, ok := mechanics.ParseType(args[0])
	if !ok {
		fail("unknown genre %q", args[0])
	}
	cfg, err := config.Load(t, flagConfig)
	if err != nil {
		fail("%v", err)
	}
	out, err := config.Marshal(cfg, flagConfigFormat)
	if err != nil {
		fail("%v", err)
	}
	fmt.Fprint(os.Stdout, string(out))
}
