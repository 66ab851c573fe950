package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cliConfig is the optional caret.toml discovered by walking up from the
// working directory. Flags override everything in it.
type cliConfig struct {
	Output  outputConfig  `toml:"output"`
	Include includeConfig `toml:"include"`
}

type outputConfig struct {
	// Color is the default color mode: auto, on, or off.
	Color string `toml:"color"`
	// PathMode is auto, absolute, relative, or basename.
	PathMode string `toml:"path_mode"`
	// ProgName prefixes every diagnostic when set.
	ProgName string `toml:"prog_name"`
}

type includeConfig struct {
	Dirs []string `toml:"dirs"`
}

func findCaretToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "caret.toml")
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

// loadConfig returns the nearest caret.toml, or a zero config when none
// exists.
func loadConfig(startDir string) (cliConfig, string, error) {
	path, ok, err := findCaretToml(startDir)
	if err != nil || !ok {
		return cliConfig{}, "", err
	}
	var cfg cliConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cliConfig{}, path, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, path, nil
}
