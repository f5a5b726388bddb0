package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name looked up in the working and home directories.
const DefaultConfigFile = ".screenwitness"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile parses the YAML file at path. Relative signature paths in
// the file are later resolved against the file's directory.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // the path comes from the user or the lookup below
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	cf := &File{dir: filepath.Dir(path)}
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cf, nil
}

// FindConfigFile returns the configuration file to load, or "" when there
// is none. An explicit path is used only if it exists. Otherwise the first
// existing file of searchPaths wins.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if isFile(explicit) {
			return explicit
		}
		return ""
	}
	for _, p := range searchPaths() {
		if isFile(p) {
			return p
		}
	}
	return ""
}

// searchPaths lists the implicit lookup locations: the working directory,
// the home directory and the XDG config directory.
func searchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), "config.yaml"))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
