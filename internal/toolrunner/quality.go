package toolrunner

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"skillman/pkg/toolapi"
)

const qualityTimeout = 300 * time.Second

// QualityChecker runs the configured quality-check command once per
// skill: `<cmd> <path> --skip-ai`.
type QualityChecker struct {
	command string
	runner  commandRunner
}

func NewQualityChecker(command string) *QualityChecker {
	return &QualityChecker{command: command, runner: execCommandRunner{}}
}

func (q *QualityChecker) Check(ctx context.Context, skillPath string) (toolapi.QualityResult, error) {
	argv := splitCommand(q.command)
	if len(argv) == 0 {
		return toolapi.QualityResult{}, errors.New("TOOL_NOT_FOUND: quality checker not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, qualityTimeout)
	defer cancel()

	args := append(argv[1:], skillPath, "--skip-ai")
	out, err := q.runner.run(ctx, argv[0], args...)
	if err != nil {
		return toolapi.QualityResult{Output: out}, err
	}
	// A clean exit without a parsable score is still a success; the
	// score just stays absent.
	return toolapi.QualityResult{Score: parseScore(out), Output: out}, nil
}

func (q *QualityChecker) Probe() error {
	return probeCommand(q.command, "quality checker")
}

// parseScore extracts the score from the last line shaped like
// "Overall Score: 8.5/10".
func parseScore(output string) *float64 {
	var score *float64
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "Overall Score:")
		if idx < 0 {
			continue
		}
		rest := line[idx+len("Overall Score:"):]
		if cut := strings.Index(rest, "/"); cut >= 0 {
			rest = rest[:cut]
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			continue
		}
		score = &value
	}
	return score
}
