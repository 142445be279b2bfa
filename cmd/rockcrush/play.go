package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rock-crush/internal/config"
	"github.com/vovakirdan/rock-crush/internal/core"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
	"github.com/vovakirdan/rock-crush/internal/platform/tui"
	"github.com/vovakirdan/rock-crush/internal/registry"
	"github.com/vovakirdan/rock-crush/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagEndless    bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play Rock Crush",
	Long: `Start a game of Rock Crush.

Without a mode or flags the setup screen asks for mode and difficulty.

Controls:
  Arrows/WASD/HJKL  - Move the cursor
  Enter/Space       - Select a rock, then a neighbour to swap
  Mouse click       - Select or swap directly
  ?/I               - Hint
  P                 - Pause
  R                 - Restart (after game over)
  Esc/B             - Back (paused or game over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - 4 kinds of rock, 40 moves, unlimited hints
  normal - 5 kinds of rock, 30 moves, 3 hints
  hard   - 6 kinds of rock, 25 moves, 1 hint

Examples:
  rockcrush play
  rockcrush play rockcrush_endless
  rockcrush play --difficulty hard
  rockcrush play --endless --seed 42
  rockcrush play --config ./my-board.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom board config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play without a move limit")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "rockcrush"
	if len(args) > 0 {
		gameID = args[0]
	}
	if flagEndless {
		gameID = "rockcrush_endless"
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'rockcrush list' to see available modes.")
		os.Exit(1)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	rockcrush.SetConfigPath(flagConfig)

	// Nothing chosen on the command line: ask
	chosen := len(args) > 0 || cmd.Flags().Changed("difficulty") || cmd.Flags().Changed("endless")
	if !chosen {
		sel, _, selErr := tui.RunCrushSetup(cfg, preset)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		if sel == nil {
			return
		}
		gameID = sel.GameID()
		preset = sel.Difficulty
	}
	rockcrush.SetDifficulty(preset)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Scores are optional; the game still works without them
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	_, runErr := tui.Run(game, store, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
