// Package config owns the ~/.skillman/config.toml document: search and
// exclude paths, the external tool commands, freshness thresholds and
// logging. Loaded once at process start; the classifier and renderers
// never read it ambiently.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"skillman/internal/fsutil"
)

func resolve(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	return path
}

// Ensure loads the config, writing the defaults first when no file
// exists yet. Any other load failure is passed through untouched.
func Ensure(path string) (Config, error) {
	path = resolve(path)
	cfg, err := Load(path)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		cfg = DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	default:
		return Config{}, err
	}
}

// Load parses, normalizes and validates the document at path. A missing
// file surfaces as os.ErrNotExist so Ensure can tell it apart from a
// broken one.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(resolve(path))
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("CONFIG_PARSE: %w", err)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save normalizes, validates and atomically writes the document,
// creating the state directory on first use.
func Save(path string, cfg Config) error {
	path = resolve(path)
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("CONFIG_ENCODE: %w", err)
	}
	return fsutil.AtomicWrite(path, blob, 0o644)
}
