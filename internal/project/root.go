package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigName is the file looked up from the working directory upwards.
const ConfigName = "tycore.toml"

// FindConfig walks up from startDir to locate tycore.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Manifest is a loaded tycore.toml. Path and Root are empty when no file
// was found and Config holds the defaults.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Discover finds and loads the nearest tycore.toml above startDir. Missing
// configuration is not an error.
func Discover(startDir string) (Manifest, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Manifest{}, err
	}
	if !ok {
		return Manifest{Config: Default()}, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}
