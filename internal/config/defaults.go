package config

const (
	SchemaVersion = 1

	DefaultQualityChecker = "skill-quality-check"
	DefaultUpdater        = "skill-update"

	DefaultFreshWithinDays = 7
	DefaultStaleAfterDays  = 30
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Paths: PathsConfig{
			Search: []string{"~/skills"},
		},
		Tools: ToolsConfig{
			QualityChecker: DefaultQualityChecker,
			Updater:        DefaultUpdater,
		},
		Freshness: FreshnessConfig{
			FreshWithinDays: DefaultFreshWithinDays,
			StaleAfterDays:  DefaultStaleAfterDays,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
