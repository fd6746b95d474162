package config

import (
	"fmt"
	"strings"
)

func AddSearchPath(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("CONFIG_PATHS: nil config")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("CONFIG_PATHS: empty search path")
	}
	for _, existing := range cfg.Paths.Search {
		if existing == path {
			return fmt.Errorf("CONFIG_PATHS: search path %q already configured", path)
		}
	}
	cfg.Paths.Search = append(cfg.Paths.Search, path)
	*cfg = Normalize(*cfg)
	return Validate(*cfg)
}

func RemoveSearchPath(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("CONFIG_PATHS: nil config")
	}
	path = strings.TrimSpace(path)
	for i, existing := range cfg.Paths.Search {
		if existing == path {
			cfg.Paths.Search = append(cfg.Paths.Search[:i], cfg.Paths.Search[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("CONFIG_PATHS: search path %q not found", path)
}

func HasSearchPath(cfg Config, path string) bool {
	for _, existing := range cfg.Paths.Search {
		if existing == path {
			return true
		}
	}
	return false
}
