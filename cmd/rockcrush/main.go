// rockcrush is a tile-matching puzzle game for the terminal.
//
// Usage:
//
//	rockcrush list              - List available modes
//	rockcrush play [mode]       - Play a game
//	rockcrush menu              - Start menu to pick a mode interactively
//	rockcrush serve             - Start SSH server for remote play
//	rockcrush scores [mode]     - Show high scores for a mode
//	rockcrush config            - Print the default board config
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible boards
//	--db <path>        - Set database path (default: ~/.rockcrush/scores.db)
//	--log-file <path>  - Write diagnostics to a file
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
	"github.com/vovakirdan/rock-crush/internal/platform/tui"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string

	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rockcrush",
	Short: "Rock Crush - a tile-matching puzzle for your terminal",
	Long: `Rock Crush is a terminal tile-matching game. Swap neighbouring rocks
to line up three or more of a kind, crush them and chain cascades.

Available commands:
  list     - Show the available modes
  play     - Play a mode directly
  menu     - Interactive menu with setup and scoreboard
  serve    - Start SSH server for remote play
  scores   - View high scores
  config   - Print or check a board config

Examples:
  rockcrush play
  rockcrush play --difficulty hard
  rockcrush play --endless
  rockcrush menu
  rockcrush serve --ssh :2222
  rockcrush scores rockcrush_endless`,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rockcrush/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write diagnostics to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setupLogging sends game and UI diagnostics to --log-file.
// Without it they are dropped, since the game owns the terminal.
func setupLogging(_ *cobra.Command, _ []string) error {
	if flagLogFile == "" {
		return nil
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
		Prefix:          "rockcrush",
	})
	tui.SetLogger(logger)
	rockcrush.SetLogger(logger)
	return nil
}
