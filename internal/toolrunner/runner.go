// Package toolrunner implements the pkg/toolapi contracts by invoking
// the configured quality-checker and updater commands as subprocesses.
package toolrunner

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type commandRunner interface {
	run(ctx context.Context, name string, args ...string) (string, error)
}

type execCommandRunner struct{}

func (execCommandRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return output, errors.Wrapf(ctx.Err(), "TOOL_TIMEOUT: %s", name)
		}
		if output == "" {
			return output, errors.Wrapf(err, "TOOL_RUN: %s", name)
		}
		return output, errors.Wrapf(err, "TOOL_RUN: %s: %s", name, output)
	}
	return output, nil
}

// splitCommand splits a configured tool command into argv. Commands may
// carry leading arguments ("python3 /opt/checker.py").
func splitCommand(command string) []string {
	return strings.Fields(command)
}

func probeCommand(command, role string) error {
	argv := splitCommand(command)
	if len(argv) == 0 {
		return errors.Errorf("TOOL_NOT_FOUND: %s not configured", role)
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return errors.Wrapf(err, "TOOL_NOT_FOUND: %s", argv[0])
	}
	return nil
}

// markerLine returns the first output line containing marker.
func markerLine(output, marker string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, marker) {
			return line, true
		}
	}
	return "", false
}

// valueAfter extracts the value following "marker" or "marker:".
func valueAfter(line, marker string) string {
	rest := line[strings.Index(line, marker)+len(marker):]
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
	return strings.TrimSpace(rest)
}
