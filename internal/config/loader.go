package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const crushFile = "rockcrush.yaml"

// LoadCrush loads Rock Crush configuration.
// Search order: customPath -> ~/.rockcrush/configs/rockcrush.yaml -> ./configs/rockcrush.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadCrush(customPath string) (CrushConfig, error) {
	return loadCrushFrom(customPath, []string{
		userConfigPath(crushFile),
		filepath.Join("configs", crushFile),
	})
}

func loadCrushFrom(customPath string, candidates []string) (CrushConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return CrushConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseCrush(data)
		if err != nil {
			return CrushConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// User and local config files; unreadable or invalid ones are skipped
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parseCrush(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := parseCrush(defaultCrushYAML)
	if err != nil {
		return DefaultCrushConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseCrush decodes data over the hardcoded defaults and validates the result.
func parseCrush(data []byte) (CrushConfig, error) {
	cfg := DefaultCrushConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CrushConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return CrushConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rockcrush", "configs", filename)
}
