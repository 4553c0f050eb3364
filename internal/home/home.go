package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the maestro home directory.
	DefaultDirName = ".maestro"

	// ScriptsDirName is the subdirectory for generated fill scripts.
	ScriptsDirName = "scripts"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the maestro home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.maestro).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ScriptsPath returns the path to the generated scripts directory.
func (d *Dir) ScriptsPath() string {
	return filepath.Join(d.path, ScriptsDirName)
}

// ScriptPath returns the path for a session's generated fill script.
func (d *Dir) ScriptPath(sessionID string) string {
	return filepath.Join(d.ScriptsPath(), sessionID+".js")
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create scripts directory (this also creates the parent)
	if err := os.MkdirAll(d.ScriptsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// SaveScript writes a generated fill script for a session and returns its path.
func (d *Dir) SaveScript(sessionID, script string) (string, error) {
	if err := d.EnsureExists(); err != nil {
		return "", err
	}
	path := d.ScriptPath(sessionID)
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	return path, nil
}
