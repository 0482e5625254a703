package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenes",
	Long:  `Shows every registered scene with its genre.`,
	Run:   runList,
}

func init() {
	listCmd.Flags().StringVar(&flagGenre, "genre", "", "Only list scenes of this genre")
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()
	if flagGenre != "" {
		t, ok := mechanics.ParseType(flagGenre)
		if !ok {
			fail("unknown genre %q", flagGenre)
		}
		scenes = registry.ForGenre(t)
	}

	if len(scenes) == 0 {
		fmt.Println("No scenes available.")
		return
	}

	fmt.Println("Available scenes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
		maxTitleLen = max(maxTitleLen, len(s.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Genre")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----")

	for _, s := range scenes {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, s.ID, maxTitleLen, s.Title, s.Genre)
	}

	fmt.Println()
	fmt.Println("Run 'playforge play <id>' to preview a scene.")
}
