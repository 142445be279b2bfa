package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
	"github.com/vovakirdan/rock-crush/internal/registry"
	"github.com/vovakirdan/rock-crush/internal/storage"
)

var (
	flagClearScores bool
	flagAllScores   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top 10 games for a mode, with moves used and how each ended.

With --all every recorded game is listed. With --clear the history and the
stored high score are deleted.

Examples:
  rockcrush scores
  rockcrush scores rockcrush_endless
  rockcrush scores --all
  rockcrush scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores and the high score for the mode")
	scoresCmd.Flags().BoolVar(&flagAllScores, "all", false, "List every recorded game instead of the top 10")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := "rockcrush"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'rockcrush list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := clearScores(store, gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Cleared scores for %s.\n", title)
		return
	}

	scores, err := listScores(store, gameID, flagAllScores)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'rockcrush play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "Rank", "Score", "Moves", "Ended", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "----", "-----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-12s  %s\n", i+1, entry.Score, entry.MovesUsed, endLabel(entry.EndReason), dateStr)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Games: %d  Best: %d  Average: %.0f  Stalemates: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.Stalemates)
	}
}

// listScores returns the top 10 games of a mode, or all of them.
func listScores(store *storage.Store, gameID string, all bool) ([]storage.ScoreEntry, error) {
	if all {
		return store.AllScores(gameID)
	}
	return store.TopScores(gameID, 10)
}

// clearScores removes the score history and the saved high score of a mode.
func clearScores(store *storage.Store, gameID string) error {
	if err := store.ClearScores(gameID); err != nil {
		return err
	}

	mode := rockcrush.ModeClassic
	if gameID == "rockcrush_endless" {
		mode = rockcrush.ModeEndless
	}
	key := rockcrush.EngineConfig(rockcrush.LoadConfig(mode, rockcrush.GetDifficulty()), mode).HighScoreKey
	return store.Delete(key)
}

func endLabel(reason string) string {
	switch reason {
	case "stalemate":
		return "no moves"
	case "out_of_moves":
		return "out of moves"
	case "":
		return "-"
	default:
		return reason
	}
}
