package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// The result is validated.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	fillFlagDefaults(cfg)

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./windflag.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Windflag")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Windflag")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "windflag")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "windflag")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// A flags list in the file replaces the default one.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// fillFlagDefaults completes flag entries a config file left partial.
func fillFlagDefaults(cfg *Config) {
	for i := range cfg.Flags {
		f := &cfg.Flags[i]
		if f.Name == "" {
			f.Name = fmt.Sprintf("flag-%d", i)
		}
		if f.PoleScale == 0 {
			f.PoleScale = 1
		}
		if f.PoleLength == 0 {
			f.PoleLength = 20
		}
	}
}
