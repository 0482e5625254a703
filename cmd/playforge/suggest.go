package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/registry"
)

var flagSceneType string

var suggestCmd = &cobra.Command{
	Use:   "suggest <description...>",
	Short: "Guess a genre from a description",
	Long: `Suggest a genre for a free-text description of a scene. The guess is
advisory; anything unrecognised is a platformer.

Examples:
  playforge suggest "a spaceship dodging lasers"
  playforge suggest a quiet village --scene-type interior`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&flagSceneType, "scene-type", "", "Coarse scene type (interior, city, space, abstract, landscape...)")
}

func runSuggest(cmd *cobra.Command, args []string) {
	t := mechanics.Suggest(strings.Join(args, " "), flagSceneType)
	fmt.Printf("%s (%s)\n", t, t.Title())

	scenes := registry.ForGenre(t)
	if len(scenes) == 0 {
		fmt.Printf("\nRun 'playforge play --genre %s' to try it.\n", t)
		return
	}
	fmt.Println()
	fmt.Println("Scenes:")
	for _, s := range scenes {
		fmt.Printf("  %s  %s\n", s.ID, s.Title)
	}
}
