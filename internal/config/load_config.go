package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"forceu8exe/internal/logger"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML config file at configFile.
// A missing file is not an error: defaults are returned instead.
// Keys left out of the file keep their default values.
func LoadConfig(configFile string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("[DEBUG] No config file at %s, using defaults\n", configFile)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", configFile, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal %s: %w", configFile, err)
	}

	// An explicit empty value should not disable the tool lookup
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}

	logger.Debug("[DEBUG] Loaded config from %s: tool=%s assembly_identity=%t\n",
		configFile, cfg.Tool, cfg.AssemblyIdentity)
	return cfg, nil
}
