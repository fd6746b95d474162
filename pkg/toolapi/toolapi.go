// Package toolapi defines the contracts skillman expects from the
// external quality-checker and updater commands.
package toolapi

import "context"

type QualityChecker interface {
	Check(ctx context.Context, skillPath string) (QualityResult, error)
	Probe() error
}

type Updater interface {
	CheckUpdates(ctx context.Context, skillPath string) (UpdateCheck, error)
	Update(ctx context.Context, skillPath string, dryRun bool) (UpdateResult, error)
	Probe() error
}

type QualityResult struct {
	Score  *float64 `json:"score,omitempty"`
	Output string   `json:"output,omitempty"`
}

type UpdateCheck struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
}

type UpdateResult struct {
	Version string `json:"version,omitempty"`
}
