// Package bulkops runs the sequential maintenance passes over the
// record set: quality checks, update checks, update application, and
// metadata initialization. Passes visit skills one at a time in name
// order; a per-skill failure is recorded and the pass continues.
package bulkops

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"skillman/internal/activity"
	"skillman/internal/logging"
	"skillman/pkg/toolapi"
)

var (
	lockTimeout    = 10 * time.Second
	lockRetryDelay = 200 * time.Millisecond
)

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Outcome is the result for one skill within a pass.
type Outcome struct {
	Skill           string   `json:"skill"`
	Status          string   `json:"status"`
	Detail          string   `json:"detail,omitempty"`
	Score           *float64 `json:"score,omitempty"`
	UpdateAvailable bool     `json:"update_available,omitempty"`
	Version         string   `json:"version,omitempty"`
}

// Summary aggregates one whole pass. The process exit status is 1
// exactly when Failed is non-zero.
type Summary struct {
	Op               string    `json:"op"`
	Total            int       `json:"total"`
	Succeeded        int       `json:"succeeded"`
	Failed           int       `json:"failed"`
	Skipped          int       `json:"skipped"`
	UpdatesAvailable int       `json:"updates_available,omitempty"`
	DryRun           bool      `json:"dry_run,omitempty"`
	Outcomes         []Outcome `json:"outcomes"`
}

// Line renders the closing summary line.
func (s Summary) Line() string {
	line := fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	return line
}

func (s *Summary) add(out Outcome) {
	switch out.Status {
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Succeeded++
	}
	s.Outcomes = append(s.Outcomes, out)
}

// Progress reports one step of a pass: "start" right before a skill is
// visited, "done" once its outcome is known.
type Progress struct {
	Phase   string
	Index   int
	Total   int
	Skill   string
	Outcome *Outcome
}

type ProgressFunc func(Progress)

// Service executes the passes. The clock is injectable so tests can
// pin sidecar timestamps.
type Service struct {
	quality  toolapi.QualityChecker
	updater  toolapi.Updater
	activity *activity.Logger
	lockPath string
	now      func() time.Time
}

type Options struct {
	Quality  toolapi.QualityChecker
	Updater  toolapi.Updater
	Activity *activity.Logger
	LockPath string
	Now      func() time.Time
}

func New(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		quality:  opts.Quality,
		updater:  opts.Updater,
		activity: opts.Activity,
		lockPath: opts.LockPath,
		now:      now,
	}
}

// acquireLock guards sidecar-writing passes against a second skillman
// process. In-process passes are single-threaded, so this is purely
// cross-process hygiene.
func (s *Service) acquireLock() (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	l := flock.New(s.lockPath)
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("LOCK_HELD: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("LOCK_HELD: another skillman process holds %s", s.lockPath)
		}
		time.Sleep(lockRetryDelay)
	}
}

func (s *Service) emit(progress ProgressFunc, p Progress) {
	if progress != nil {
		progress(p)
	}
}

// logPass appends one activity event for the whole pass. A failure to
// write the log never fails the pass itself.
func (s *Service) logPass(ctx context.Context, sum Summary) {
	status := "ok"
	if sum.Failed > 0 {
		status = "error"
	}
	msg := sum.Line()
	if sum.DryRun {
		msg += " (dry run)"
	}
	if err := s.activity.Log(activity.Event{Operation: sum.Op, Status: status, Message: msg}); err != nil {
		logging.G(ctx).WithError(err).Warn("activity log write failed")
	}
}
