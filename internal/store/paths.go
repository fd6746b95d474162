// Package store resolves the on-disk layout under the skillman state
// root (~/.skillman unless SKILLMAN_HOME overrides it).
package store

import (
	"os"
	"path/filepath"

	"skillman/internal/config"
)

func Root() string {
	return config.StateHome()
}

func EnsureLayout(root string) error {
	return os.MkdirAll(root, 0o755)
}

func ActivityPath(root string) string {
	return filepath.Join(root, "activity.jsonl")
}

func LockPath(root string) string {
	return filepath.Join(root, "skillman.lock")
}
