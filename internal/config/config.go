// Package config provides YAML-based game configuration loading and
// difficulty presets for Rock Crush.
package config

import (
	"fmt"
	"strings"
)

// CrushConfig contains all configuration for the Rock Crush game.
type CrushConfig struct {
	Board     CrushBoard     `yaml:"board"`
	Gameplay  CrushGameplay  `yaml:"gameplay"`
	Generator CrushGenerator `yaml:"generator"`
	Cascade   CrushCascade   `yaml:"cascade"`
	Animation CrushAnimation `yaml:"animation"`
	Storage   CrushStorage   `yaml:"storage"`
}

// CrushBoard defines the grid dimensions and tile palette.
type CrushBoard struct {
	Size    int `yaml:"size"`    // Grid is Size×Size
	Palette int `yaml:"palette"` // Number of rock kinds
}

// CrushGameplay defines scoring and move limits.
type CrushGameplay struct {
	Moves         int `yaml:"moves"`           // Moves per game, 0 = unlimited
	PointsPerTile int `yaml:"points_per_tile"` // Points per cleared rock
	HintLimit     int `yaml:"hint_limit"`      // Requested hints per game, 0 = unlimited
}

// CrushGenerator bounds grid generation.
type CrushGenerator struct {
	MaxRetries    int `yaml:"max_retries"`    // Redraws per cell before forcing a kind
	MaxReshuffles int `yaml:"max_reshuffles"` // Regenerations of a grid with no legal move
}

// CrushCascade bounds cascade resolution.
type CrushCascade struct {
	MaxSteps int `yaml:"max_steps"` // Clear/drop rounds per swap, 0 = unbounded
}

// CrushAnimation sets how long each cascade phase stays on screen, in ticks.
type CrushAnimation struct {
	SwapTicks  int `yaml:"swap_ticks"`
	ClearTicks int `yaml:"clear_ticks"`
	DropTicks  int `yaml:"drop_ticks"`
	HintTicks  int `yaml:"hint_ticks"` // How long a hint stays highlighted
}

// CrushStorage configures high score persistence.
type CrushStorage struct {
	HighScoreKey string `yaml:"high_score_key"`
}

// Validate reports the first out-of-range value.
func (c CrushConfig) Validate() error {
	switch {
	case c.Board.Size < 3 || c.Board.Size > 16:
		return fmt.Errorf("config: board.size %d must be between 3 and 16", c.Board.Size)
	case c.Board.Palette < 3 || c.Board.Palette > 8:
		return fmt.Errorf("config: board.palette %d must be between 3 and 8", c.Board.Palette)
	case c.Gameplay.Moves < 0:
		return fmt.Errorf("config: gameplay.moves %d must not be negative", c.Gameplay.Moves)
	case c.Gameplay.PointsPerTile < 0:
		return fmt.Errorf("config: gameplay.points_per_tile %d must not be negative", c.Gameplay.PointsPerTile)
	case c.Gameplay.HintLimit < 0:
		return fmt.Errorf("config: gameplay.hint_limit %d must not be negative", c.Gameplay.HintLimit)
	case c.Generator.MaxRetries < 0 || c.Generator.MaxReshuffles < 0:
		return fmt.Errorf("config: generator bounds must not be negative")
	case c.Cascade.MaxSteps < 0:
		return fmt.Errorf("config: cascade.max_steps %d must not be negative", c.Cascade.MaxSteps)
	case c.Animation.SwapTicks < 0 || c.Animation.ClearTicks < 0 || c.Animation.DropTicks < 0 || c.Animation.HintTicks < 0:
		return fmt.Errorf("config: animation ticks must not be negative")
	case strings.TrimSpace(c.Storage.HighScoreKey) == "":
		return fmt.Errorf("config: storage.high_score_key must be set")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (use easy, normal or hard)", s)
	}
}

// ApplyCrushPreset modifies the config based on a difficulty preset.
// Fewer kinds make matches more likely; more kinds make them scarce.
// A config loaded with unlimited moves keeps them.
func ApplyCrushPreset(cfg *CrushConfig, preset DifficultyPreset) {
	unlimited := cfg.Gameplay.Moves == 0

	switch preset {
	case DifficultyEasy:
		cfg.Board.Palette = 4
		cfg.Gameplay.Moves = 40
		cfg.Gameplay.HintLimit = 0
	case DifficultyHard:
		cfg.Board.Palette = 6
		cfg.Gameplay.Moves = 25
		cfg.Gameplay.HintLimit = 1
	}

	if unlimited {
		cfg.Gameplay.Moves = 0
	}
}
