/*
Package config handles loading and saving autopilot configuration.

Configuration is stored in ~/.autopilot.json using camelCase keys.

Schema:

	{
	  "autopilot": {
	    "mode": "assisted",
	    "autoApprove": false,
	    "maxConcurrentTasks": 3,
	    "learningEnabled": true,
	    "riskTolerance": "medium",
	    "notifyOnCompletion": true
	  },
	  "storage": {
	    "path": "",
	    "retentionDays": 30
	  },
	  "planner": {
	    "similarityBoost": 0.1,
	    "historySize": 500
	  }
	}
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/khanglvm/autopilot/internal/autopilot"
)

// Config represents the root configuration structure.
type Config struct {
	// Autopilot holds the six runtime gate/feedback settings.
	Autopilot *AutopilotConfig `json:"autopilot"`

	// Storage holds persistence options.
	Storage *StorageConfig `json:"storage,omitempty"`

	// Planner holds the tunable planning constants.
	Planner *PlannerConfig `json:"planner,omitempty"`
}

// AutopilotConfig mirrors autopilot.Settings in file form.
type AutopilotConfig struct {
	Mode               string `json:"mode"`
	AutoApprove        bool   `json:"autoApprove"`
	MaxConcurrentTasks int    `json:"maxConcurrentTasks"`
	LearningEnabled    bool   `json:"learningEnabled"`
	RiskTolerance      string `json:"riskTolerance"`
	NotifyOnCompletion bool   `json:"notifyOnCompletion"`
}

// StorageConfig holds persistence options.
type StorageConfig struct {
	// Path overrides the default database location.
	Path string `json:"path,omitempty"`

	// RetentionDays bounds how long interactions are kept.
	RetentionDays int `json:"retentionDays,omitempty"`
}

// PlannerConfig holds the tunable planning constants.
type PlannerConfig struct {
	SimilarityBoost float64 `json:"similarityBoost,omitempty"`
	HistorySize     int     `json:"historySize,omitempty"`
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config {
	defaults := autopilot.DefaultSettings()
	return &Config{
		Autopilot: &AutopilotConfig{
			Mode:               string(defaults.Mode),
			AutoApprove:        defaults.AutoApprove,
			MaxConcurrentTasks: defaults.MaxConcurrentTasks,
			LearningEnabled:    defaults.LearningEnabled,
			RiskTolerance:      string(defaults.RiskTolerance),
			NotifyOnCompletion: defaults.NotifyOnCompletion,
		},
		Storage: &StorageConfig{RetentionDays: 30},
		Planner: &PlannerConfig{SimilarityBoost: 0.1, HistorySize: 500},
	}
}

// Settings converts the file form into runtime settings.
func (c *Config) Settings() autopilot.Settings {
	if c.Autopilot == nil {
		return autopilot.DefaultSettings()
	}
	s := autopilot.Settings{
		Mode:               autopilot.Mode(c.Autopilot.Mode),
		AutoApprove:        c.Autopilot.AutoApprove,
		MaxConcurrentTasks: c.Autopilot.MaxConcurrentTasks,
		LearningEnabled:    c.Autopilot.LearningEnabled,
		RiskTolerance:      autopilot.RiskTolerance(c.Autopilot.RiskTolerance),
		NotifyOnCompletion: c.Autopilot.NotifyOnCompletion,
	}
	if s.Mode == "" {
		s.Mode = autopilot.ModeAssisted
	}
	if s.RiskTolerance == "" {
		s.RiskTolerance = autopilot.RiskMedium
	}
	return s
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Autopilot != nil {
		switch autopilot.Mode(c.Autopilot.Mode) {
		case autopilot.ModeAssisted, autopilot.ModeAutonomous, "":
		default:
			return fmt.Errorf("invalid mode %q (want assisted or autonomous)", c.Autopilot.Mode)
		}
		switch autopilot.RiskTolerance(c.Autopilot.RiskTolerance) {
		case autopilot.RiskLow, autopilot.RiskMedium, autopilot.RiskHigh, "":
		default:
			return fmt.Errorf("invalid riskTolerance %q (want low, medium, or high)", c.Autopilot.RiskTolerance)
		}
		if c.Autopilot.MaxConcurrentTasks < 0 {
			return fmt.Errorf("maxConcurrentTasks must not be negative")
		}
	}
	if c.Storage != nil && c.Storage.RetentionDays < 0 {
		return fmt.Errorf("retentionDays must not be negative")
	}
	return nil
}

// GetDefaultConfigPath returns the path to ~/.autopilot.json.
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".autopilot.json"), nil
}
