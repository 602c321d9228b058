package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the introscript home directory.
	DefaultDirName = ".introscript"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// HistoryFileName holds the persisted generation history collection.
	HistoryFileName = "history.json"

	// TemplatesFileName holds the persisted prompt template collection.
	TemplatesFileName = "prompt-templates.json"

	// SessionDirName is the subdirectory for session-scoped scratch state.
	SessionDirName = "session"

	// ProfilesDirName is the subdirectory for saved profile files.
	ProfilesDirName = "profiles"
)

// Dir represents the introscript home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.introscript).
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

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// HistoryPath returns the path to the generation history file.
func (d *Dir) HistoryPath() string {
	return filepath.Join(d.path, HistoryFileName)
}

// TemplatesPath returns the path to the prompt templates file.
func (d *Dir) TemplatesPath() string {
	return filepath.Join(d.path, TemplatesFileName)
}

// SessionPath returns the session scratch directory.
func (d *Dir) SessionPath() string {
	return filepath.Join(d.path, SessionDirName)
}

// ProfilesPath returns the directory for saved profile files.
func (d *Dir) ProfilesPath() string {
	return filepath.Join(d.path, ProfilesDirName)
}

// ProfilePath returns the path to a named profile file.
func (d *Dir) ProfilePath(name string) string {
	return filepath.Join(d.ProfilesPath(), name+".yaml")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.SessionPath(), d.ProfilesPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
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
