package config

// Config is the frozen v1 global schema.
type Config struct {
	Version   int             `toml:"version"`
	Paths     PathsConfig     `toml:"paths"`
	Tools     ToolsConfig     `toml:"tools"`
	Freshness FreshnessConfig `toml:"freshness"`
	Logging   LoggingConfig   `toml:"logging"`
}

// PathsConfig lists where skills are looked for. Search entries may be
// plain directories or doublestar glob patterns; exclude entries are
// glob patterns matched against skill names.
type PathsConfig struct {
	Search  []string `toml:"search" json:"search"`
	Exclude []string `toml:"exclude,omitempty" json:"exclude,omitempty"`
}

// ToolsConfig names the external maintenance commands. Commands are
// resolved via PATH at invocation time; absolute paths work too.
type ToolsConfig struct {
	QualityChecker string `toml:"quality_checker" json:"quality_checker"`
	Updater        string `toml:"updater" json:"updater"`
}

// FreshnessConfig holds the day thresholds separating fresh, aging and
// stale skills.
type FreshnessConfig struct {
	FreshWithinDays int `toml:"fresh_within_days" json:"fresh_within_days"`
	StaleAfterDays  int `toml:"stale_after_days" json:"stale_after_days"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}
