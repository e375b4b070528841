package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HistoryConfig represents prompt and run history configuration
type HistoryConfig struct {
	// Enabled enables recording of prompts and run summaries
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (empty = <home>/history.db)
	DBPath string `yaml:"db_path"`

	// MaxEntries is the number of entries kept per prompt kind
	MaxEntries int `yaml:"max_entries"`
}

// Config represents findreplace configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written (empty = <home>/logs)
	LogDir string `yaml:"log_dir"`

	// NoColor disables colored console output
	NoColor bool `yaml:"no_color"`

	// PreviewLimit caps how many files the confirmation preview lists
	PreviewLimit int `yaml:"preview_limit"`

	// FailureLimit caps how many per-file failures the summary lists
	FailureLimit int `yaml:"failure_limit"`

	// History contains prompt and run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		LogDir:       "", // Resolved against the findreplace home at use
		NoColor:      false,
		PreviewLimit: 150,
		FailureLimit: 10,
		History: HistoryConfig{
			Enabled:    true,
			DBPath:     "", // Resolved against the findreplace home at use
			MaxEntries: 20,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	// NoColor is explicitly set if present in YAML
	if yamlCfg.NoColor {
		cfg.NoColor = yamlCfg.NoColor
	}
	if yamlCfg.PreviewLimit != 0 {
		cfg.PreviewLimit = yamlCfg.PreviewLimit
	}
	if yamlCfg.FailureLimit != 0 {
		cfg.FailureLimit = yamlCfg.FailureLimit
	}

	// Merge the history section only when it was provided at all, so that
	// "enabled: false" is distinguishable from an absent section.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			history := yamlCfg.History
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				// Explicitly set db_path, even if empty string
				cfg.History.DBPath = history.DBPath
			}
			if _, exists := historyMap["max_entries"]; exists {
				cfg.History.MaxEntries = history.MaxEntries
			}
		}
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, so CLI flags take
// precedence over config file settings.
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, noColor *bool, historyEnabled *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if noColor != nil {
		c.NoColor = *noColor
	}
	if historyEnabled != nil {
		c.History.Enabled = *historyEnabled
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.PreviewLimit <= 0 {
		return fmt.Errorf("preview_limit must be > 0, got %d", c.PreviewLimit)
	}
	if c.FailureLimit <= 0 {
		return fmt.Errorf("failure_limit must be > 0, got %d", c.FailureLimit)
	}

	if c.History.Enabled {
		if c.History.MaxEntries <= 0 {
			return fmt.Errorf("history.max_entries must be > 0 when history is enabled, got %d", c.History.MaxEntries)
		}
	}

	return nil
}
