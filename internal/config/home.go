package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetHome returns the findreplace home directory.
// Priority order:
//  1. FINDREPLACE_HOME environment variable (if set)
//  2. ~/.findreplace
//
// The directory is created if it doesn't exist.
func GetHome() (string, error) {
	if home := os.Getenv("FINDREPLACE_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create findreplace home directory: %w", err)
		}
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	home := filepath.Join(userHome, ".findreplace")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create findreplace home directory: %w", err)
	}

	return home, nil
}

// DefaultConfigPath returns the path of the config file inside the
// findreplace home. The file itself may not exist.
func DefaultConfigPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// GetHistoryDBPath returns the absolute path to the history database.
// Always returns: $FINDREPLACE_HOME/history.db
func GetHistoryDBPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}

// GetLogsDir returns the run log directory, creating it if needed.
func GetLogsDir() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}

	logsDir := filepath.Join(home, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	return logsDir, nil
}
