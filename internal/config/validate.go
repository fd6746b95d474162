package config

import (
	"fmt"
	"strings"
)

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedLogFormats = map[string]struct{}{
	"text": {},
	"json": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("CONFIG_VERSION: unsupported version %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Tools.QualityChecker) == "" {
		return fmt.Errorf("CONFIG_TOOLS: missing quality checker command")
	}
	if strings.TrimSpace(cfg.Tools.Updater) == "" {
		return fmt.Errorf("CONFIG_TOOLS: missing updater command")
	}
	if cfg.Freshness.FreshWithinDays <= 0 {
		return fmt.Errorf("CONFIG_FRESHNESS: fresh_within_days must be positive, got %d", cfg.Freshness.FreshWithinDays)
	}
	if cfg.Freshness.StaleAfterDays <= cfg.Freshness.FreshWithinDays {
		return fmt.Errorf("CONFIG_FRESHNESS: stale_after_days %d must exceed fresh_within_days %d",
			cfg.Freshness.StaleAfterDays, cfg.Freshness.FreshWithinDays)
	}
	if _, ok := allowedLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("CONFIG_LOGGING: unsupported level %q", cfg.Logging.Level)
	}
	if _, ok := allowedLogFormats[cfg.Logging.Format]; !ok {
		return fmt.Errorf("CONFIG_LOGGING: unsupported format %q", cfg.Logging.Format)
	}
	seen := map[string]struct{}{}
	for _, p := range cfg.Paths.Search {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("CONFIG_PATHS: empty search path")
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("CONFIG_PATHS: duplicate search path %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
