package config

import (
	_ "embed"
)

//go:embed defaults/rockcrush.yaml
var defaultCrushYAML []byte

// DefaultCrushConfig returns the default Rock Crush configuration:
// an 8×8 board, five rock kinds and 30 moves.
func DefaultCrushConfig() CrushConfig {
	return CrushConfig{
		Board: CrushBoard{
			Size:    8,
			Palette: 5,
		},
		Gameplay: CrushGameplay{
			Moves:         30,
			PointsPerTile: 10,
			HintLimit:     3,
		},
		Generator: CrushGenerator{
			MaxRetries:    50,
			MaxReshuffles: 100,
		},
		Cascade: CrushCascade{
			MaxSteps: 100,
		},
		Animation: CrushAnimation{
			SwapTicks:  6,  // 100ms at 60fps
			ClearTicks: 12, // 200ms
			DropTicks:  18, // 300ms
			HintTicks:  120,
		},
		Storage: CrushStorage{
			HighScoreKey: "rockCrushHighScore",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "rockcrush", "rockcrush_endless":
		return defaultCrushYAML
	default:
		return nil
	}
}
