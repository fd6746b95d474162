package toolrunner

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"skillman/pkg/toolapi"
)

const (
	checkUpdatesTimeout = 120 * time.Second
	applyUpdateTimeout  = 600 * time.Second
)

// Updater runs the configured update command: `<cmd> <path>
// --check-updates` to probe and `<cmd> <path> --update [--dry-run]`
// to apply.
type Updater struct {
	command string
	runner  commandRunner
}

func NewUpdater(command string) *Updater {
	return &Updater{command: command, runner: execCommandRunner{}}
}

func (u *Updater) CheckUpdates(ctx context.Context, skillPath string) (toolapi.UpdateCheck, error) {
	argv := splitCommand(u.command)
	if len(argv) == 0 {
		return toolapi.UpdateCheck{}, errors.New("TOOL_NOT_FOUND: updater not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, checkUpdatesTimeout)
	defer cancel()

	args := append(argv[1:], skillPath, "--check-updates")
	out, err := u.runner.run(ctx, argv[0], args...)
	if err != nil {
		return toolapi.UpdateCheck{}, err
	}

	check := toolapi.UpdateCheck{}
	if line, ok := markerLine(out, "Updates available"); ok {
		check.Available = true
		check.Version = valueAfter(line, "Updates available")
	}
	return check, nil
}

func (u *Updater) Update(ctx context.Context, skillPath string, dryRun bool) (toolapi.UpdateResult, error) {
	argv := splitCommand(u.command)
	if len(argv) == 0 {
		return toolapi.UpdateResult{}, errors.New("TOOL_NOT_FOUND: updater not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, applyUpdateTimeout)
	defer cancel()

	args := append(argv[1:], skillPath, "--update")
	if dryRun {
		args = append(args, "--dry-run")
	}
	out, err := u.runner.run(ctx, argv[0], args...)
	if err != nil {
		return toolapi.UpdateResult{}, err
	}

	res := toolapi.UpdateResult{}
	if line, ok := markerLine(out, "Updated to:"); ok {
		res.Version = valueAfter(line, "Updated to:")
	}
	return res, nil
}

func (u *Updater) Probe() error {
	return probeCommand(u.command, "updater")
}
