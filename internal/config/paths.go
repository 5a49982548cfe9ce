package config

import (
	"os"
	"path/filepath"
)

// Dir returns the configuration directory path (~/.config/mafqudat).
// It can be overridden with the MAFQUDAT_CONFIG_DIR environment variable.
func Dir() string {
	if d := os.Getenv("MAFQUDAT_CONFIG_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "mafqudat")
	}
	return filepath.Join(home, ".config", "mafqudat")
}

// ConfigFile returns the path to the config.yaml file.
func ConfigFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// PrefsFile returns the path of the YAML preference store.
func PrefsFile() string {
	return filepath.Join(Dir(), "prefs.yaml")
}

// PrefsDB returns the path of the SQLite preference store.
func PrefsDB() string {
	return filepath.Join(Dir(), "prefs.db")
}

// LogFile returns the default log file path. The TUI owns the terminal, so
// logs never go to stdout.
func LogFile() string {
	return filepath.Join(Dir(), "mafqudat.log")
}
