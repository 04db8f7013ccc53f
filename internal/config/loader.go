package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the race configuration.
// Search order: customPath -> ~/.pursuit/configs/race.yaml -> ./configs/race.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names. The result is validated before being returned.
func Load(customPath string) (RaceConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := decode(data)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("race.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decode(data); err == nil {
				return cfg, cfg.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "race.yaml")); err == nil {
		if cfg, err := decode(data); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Use embedded default YAML
	var cfg RaceConfig
	if err := yaml.Unmarshal(defaultRaceYAML, &cfg); err != nil {
		return DefaultRaceConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// decode unmarshals data on top of the defaults.
func decode(data []byte) (RaceConfig, error) {
	cfg := DefaultRaceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RaceConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pursuit", "configs", filename)
}
