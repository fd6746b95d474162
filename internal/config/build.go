package config

// Build identity, overridden at release time via
// -ldflags "-X skillman/internal/config.Version=..." and friends.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
