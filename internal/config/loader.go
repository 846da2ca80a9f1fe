package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Load reads the configuration from the default path, creating defaults in
// memory when no file exists yet.
func Load() (*Config, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		if _, ok := err.(*ConfigNotFoundError); ok {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads config with enhanced error handling
func LoadFrom(path string) (*Config, error) {
	// Check file existence first
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path: path,
				Op:   "read",
				Fix:  getReadPermissionFix(path),
				Perm: currentPerm(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:   path,
			Reason: fmt.Sprintf("JSON parse error: %v", err),
			Hint:   "Restore from the .bak backup next to it, or rerun 'autopilot config init --force'",
		}
	}

	// Fill absent sections with defaults
	defaults := NewConfig()
	if cfg.Autopilot == nil {
		cfg.Autopilot = defaults.Autopilot
	}
	if cfg.Storage == nil {
		cfg.Storage = defaults.Storage
	}
	if cfg.Planner == nil {
		cfg.Planner = defaults.Planner
	}

	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{
			Path:   path,
			Reason: err.Error(),
			Hint:   "Fix the value and try again",
		}
	}

	return &cfg, nil
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}

// currentPerm reports the file's permission bits, when they can be read.
func currentPerm(path string) string {
	if runtime.GOOS == "windows" {
		return "" // Not applicable on Windows
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%04o", info.Mode().Perm())
}
