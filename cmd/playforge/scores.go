package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/registry"
	"github.com/vovakirdan/playforge/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores [scene]",
	Short: "Show high scores",
	Long: `Display the top 10 runs for the specified scene, or a summary of every
scene when none is given.

Examples:
  playforge scores
  playforge scores meadow
  playforge scores meadow --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete the scene's scores")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClearScores {
			fail("--clear needs a scene")
		}
		printSceneStats(store)
		return
	}

	sceneID := args[0]
	sc, err := registry.Create(sceneID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", sceneID)
		fmt.Fprintln(os.Stderr, "Run 'playforge list' to see available scenes.")
		os.Exit(1)
	}

	if flagClearScores {
		if err := store.ClearScores(sceneID); err != nil {
			fail("clearing scores: %v", err)
		}
		fmt.Printf("Cleared scores for %s.\n", sc.Title())
		return
	}

	scores, err := store.TopScores(sceneID, 10)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s (%s)\n", sc.Title(), sc.Genre())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'playforge play %s' to set the first high score!\n", sceneID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-9s  %s\n", "Rank", "Score", "Items", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-9s  %s\n", "----", "-----", "-----", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-9s  %s\n", i+1, entry.Score, entry.Collectibles,
			entry.Duration.Round(100*time.Millisecond), dateStr)
	}
}

func printSceneStats(store *storage.Store) {
	stats, err := store.AllSceneStats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-5s  %-8s  %-8s  %-9s  %s\n", "Scene", "Runs", "Best", "Avg", "Fastest", "Last played")
	fmt.Printf("  %-16s  %-5s  %-8s  %-8s  %-9s  %s\n", "-----", "----", "----", "---", "-------", "-----------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-16s  %-5d  %-8d  %-8.1f  %-9s  %s\n", id, s.RunsCount, s.HighScore, s.AvgScore,
			s.BestDuration.Round(100*time.Millisecond), s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
