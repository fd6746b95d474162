package config

import "strings"

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Tools.QualityChecker == "" {
		cfg.Tools.QualityChecker = DefaultQualityChecker
	}
	if cfg.Tools.Updater == "" {
		cfg.Tools.Updater = DefaultUpdater
	}
	if cfg.Freshness.FreshWithinDays == 0 {
		cfg.Freshness.FreshWithinDays = DefaultFreshWithinDays
	}
	if cfg.Freshness.StaleAfterDays == 0 {
		cfg.Freshness.StaleAfterDays = DefaultStaleAfterDays
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Paths.Search = cleanList(cfg.Paths.Search)
	cfg.Paths.Exclude = cleanList(cfg.Paths.Exclude)
	return cfg
}

// cleanList trims entries, drops empties and removes duplicates while
// keeping first-seen order.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, entry := range in {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out
}
