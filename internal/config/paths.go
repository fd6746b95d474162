package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func DefaultConfigPath() string {
	return filepath.Join(stateHome(), "config.toml")
}

// StateHome resolves the directory holding the config, activity log and
// lock file. SKILLMAN_HOME overrides the default ~/.skillman.
func StateHome() string {
	return stateHome()
}

func stateHome() string {
	if override := os.Getenv("SKILLMAN_HOME"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillman"
	}
	return filepath.Join(home, ".skillman")
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
