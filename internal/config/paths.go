package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "pullrefresh"

// GetConfigDir returns the directory holding config.toml.
func GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// GetStateDir returns the directory for persistent data (survives reboots).
func GetStateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

// DefaultConfigPath returns the path of the config file.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// DefaultDatabasePath returns the path of the demo feed database.
func DefaultDatabasePath() string {
	return filepath.Join(GetStateDir(), "feed.db")
}

// DefaultLogPath returns the path of the log file.
func DefaultLogPath() string {
	return filepath.Join(GetStateDir(), "pullrefresh.log")
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}
