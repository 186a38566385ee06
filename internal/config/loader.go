package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// tuningFile mirrors Tuning but keeps each tier as a raw node so an override
// file can be decoded on top of the defaults field by field.
type tuningFile struct {
	Catch    map[Tier]yaml.Node `yaml:"catch"`
	Sequence map[Tier]yaml.Node `yaml:"sequence"`
	Dodge    map[Tier]yaml.Node `yaml:"dodge"`
}

// Load loads the tuning tables.
// Search order: customPath -> ~/.fragments/tuning.yaml -> ./configs/tuning.yaml -> embedded default
func Load(customPath string) (Tuning, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Tuning{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Tuning{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tuning.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/tuning.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultTuningYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a tuning file and applies it over the built-in defaults.
// Tiers and fields missing from data keep their default values.
func Parse(data []byte) (Tuning, error) {
	var file tuningFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tuning{}, err
	}

	cfg := Default()
	for tier, node := range file.Catch {
		if !tier.Valid() {
			return Tuning{}, fmt.Errorf("config: catch: unknown tier %q", tier)
		}
		p := cfg.Catch[tier]
		if err := node.Decode(&p); err != nil {
			return Tuning{}, fmt.Errorf("config: catch/%s: %w", tier, err)
		}
		cfg.Catch[tier] = p
	}
	for tier, node := range file.Sequence {
		if !tier.Valid() {
			return Tuning{}, fmt.Errorf("config: sequence: unknown tier %q", tier)
		}
		p := cfg.Sequence[tier]
		if err := node.Decode(&p); err != nil {
			return Tuning{}, fmt.Errorf("config: sequence/%s: %w", tier, err)
		}
		cfg.Sequence[tier] = p
	}
	for tier, node := range file.Dodge {
		if !tier.Valid() {
			return Tuning{}, fmt.Errorf("config: dodge: unknown tier %q", tier)
		}
		p := cfg.Dodge[tier]
		if err := node.Decode(&p); err != nil {
			return Tuning{}, fmt.Errorf("config: dodge/%s: %w", tier, err)
		}
		cfg.Dodge[tier] = p
	}

	if err := cfg.Validate(); err != nil {
		return Tuning{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fragments", filename)
}
