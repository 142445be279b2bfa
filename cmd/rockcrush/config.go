package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rock-crush/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default board config",
	Long: `Print the built-in YAML config. Save it as ~/.rockcrush/configs/rockcrush.yaml
or ./configs/rockcrush.yaml and edit it, or pass it with --config.

Examples:
  rockcrush config > ~/.rockcrush/configs/rockcrush.yaml
  rockcrush config --check ./my-board.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

var flagCheckConfig string

func init() {
	configCmd.Flags().StringVar(&flagCheckConfig, "check", "", "Load and validate a config file instead")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagCheckConfig == "" {
		os.Stdout.Write(config.GetDefaultYAML("rockcrush")) //nolint:errcheck // Best-effort write to stdout
		return
	}

	cfg, err := config.LoadCrush(flagCheckConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok (%dx%d board, %d kinds, %d moves)\n",
		flagCheckConfig, cfg.Board.Size, cfg.Board.Size, cfg.Board.Palette, cfg.Gameplay.Moves)
}
