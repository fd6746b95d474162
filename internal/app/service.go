// Package app wires the skillman services together and exposes one
// method per CLI operation. The CLI layer stays free of domain logic.
package app

import (
	"context"
	"fmt"
	"time"

	"skillman/internal/activity"
	"skillman/internal/bulkops"
	"skillman/internal/config"
	"skillman/internal/dashboard"
	"skillman/internal/discovery"
	"skillman/internal/doctor"
	"skillman/internal/fsutil"
	"skillman/internal/logging"
	"skillman/internal/registry"
	"skillman/internal/report"
	"skillman/internal/skill"
	"skillman/internal/status"
	storepkg "skillman/internal/store"
	"skillman/internal/toolrunner"
	"skillman/pkg/toolapi"
)

type Options struct {
	ConfigPath string

	// Per-invocation command overrides for the configured tools.
	QualityCommand string
	UpdaterCommand string

	// Direct tool injection for tests; wins over commands.
	Quality toolapi.QualityChecker
	Updater toolapi.Updater

	Now func() time.Time
}

type Service struct {
	ConfigPath string
	Config     config.Config
	StateRoot  string
	Policy     status.Policy

	Registry *registry.Registry
	Bulk     *bulkops.Service
	Doctor   *doctor.Service
	Activity *activity.Logger

	now func() time.Time
}

func New(opts Options) (*Service, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		return nil, err
	}

	stateRoot := storepkg.Root()
	if err := storepkg.EnsureLayout(stateRoot); err != nil {
		return nil, fmt.Errorf("STATE_LAYOUT: %w", err)
	}
	logger := activity.New(storepkg.ActivityPath(stateRoot))

	qualityCmd := cfg.Tools.QualityChecker
	if opts.QualityCommand != "" {
		qualityCmd = opts.QualityCommand
	}
	updaterCmd := cfg.Tools.Updater
	if opts.UpdaterCommand != "" {
		updaterCmd = opts.UpdaterCommand
	}
	quality := opts.Quality
	if quality == nil {
		quality = toolrunner.NewQualityChecker(qualityCmd)
	}
	updater := opts.Updater
	if updater == nil {
		updater = toolrunner.NewUpdater(updaterCmd)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	bulk := bulkops.New(bulkops.Options{
		Quality:  quality,
		Updater:  updater,
		Activity: logger,
		LockPath: storepkg.LockPath(stateRoot),
		Now:      now,
	})
	doctorSvc := &doctor.Service{
		ConfigPath: configPath,
		StateRoot:  stateRoot,
		Quality:    quality,
		Updater:    updater,
	}

	return &Service{
		ConfigPath: configPath,
		Config:     cfg,
		StateRoot:  stateRoot,
		Policy:     status.NewPolicy(cfg.Freshness.FreshWithinDays, cfg.Freshness.StaleAfterDays),
		Registry:   registry.New(discovery.Result{}),
		Bulk:       bulk,
		Doctor:     doctorSvc,
		Activity:   logger,
		now:        now,
	}, nil
}

func (s *Service) SaveConfig() error {
	return config.Save(s.ConfigPath, s.Config)
}

// Scan walks the configured search paths and replaces the registry with
// the result.
func (s *Service) Scan(ctx context.Context) (discovery.Result, error) {
	res, err := discovery.Scan(ctx, discovery.Options{
		SearchPaths: s.Config.Paths.Search,
		Excludes:    s.Config.Paths.Exclude,
	})
	if err != nil {
		return discovery.Result{}, err
	}
	s.Registry.Replace(res)
	s.logActivity(ctx, activity.Event{Operation: "scan", Message: foundMessage(len(res.Records))})
	return res, nil
}

func (s *Service) Records() []skill.Record {
	return s.Registry.Records()
}

func (s *Service) Snapshot() status.Snapshot {
	return status.Aggregate(s.Registry.Records(), s.now(), s.Policy)
}

// DashboardView assembles one dashboard render from current state.
func (s *Service) DashboardView(sortKey registry.SortKey) dashboard.View {
	now := s.now()
	records := s.Registry.SortedBy(sortKey, now)
	return dashboard.View{
		Now:        now,
		Records:    records,
		Snapshot:   status.Aggregate(records, now, s.Policy),
		Policy:     s.Policy,
		Activity:   s.Activity.Tail(5),
		Duplicates: s.Registry.Duplicates(),
	}
}

// Show renders the details view for one skill by name.
func (s *Service) Show(name string) (string, error) {
	rec, ok := s.Registry.Get(name)
	if !ok {
		return "", fmt.Errorf("SCAN_UNKNOWN_SKILL: no skill named %q", name)
	}
	return dashboard.RenderDetails(rec, s.now(), s.Policy), nil
}

func (s *Service) CheckQuality(ctx context.Context, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
	return s.Bulk.CheckQuality(ctx, s.Registry.Records(), progress)
}

func (s *Service) CheckUpdates(ctx context.Context, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
	return s.Bulk.CheckUpdates(ctx, s.Registry.Records(), progress)
}

func (s *Service) UpdateAll(ctx context.Context, dryRun bool, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
	return s.Bulk.Update(ctx, s.Registry.Records(), dryRun, progress)
}

func (s *Service) InitMetadata(ctx context.Context, progress bulkops.ProgressFunc) (bulkops.Summary, error) {
	return s.Bulk.InitMetadata(ctx, s.Registry.Records(), progress)
}

// Report renders the markdown report and, when path is non-empty,
// writes it there atomically.
func (s *Service) Report(ctx context.Context, path string) (string, error) {
	now := s.now()
	records := s.Registry.Records()
	md := report.RenderMarkdown(records, status.Aggregate(records, now, s.Policy), now, s.Policy)
	if path == "" {
		return md, nil
	}
	if err := fsutil.AtomicWrite(path, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("REPORT_WRITE: %w", err)
	}
	s.logActivity(ctx, activity.Event{Operation: "report", Message: "wrote " + path})
	return md, nil
}

func (s *Service) PathAdd(path string) error {
	if err := config.AddSearchPath(&s.Config, path); err != nil {
		return err
	}
	return s.SaveConfig()
}

func (s *Service) PathRemove(path string) error {
	if err := config.RemoveSearchPath(&s.Config, path); err != nil {
		return err
	}
	return s.SaveConfig()
}

func (s *Service) PathList() []string {
	return append([]string(nil), s.Config.Paths.Search...)
}

func (s *Service) DoctorRun(ctx context.Context) doctor.Report {
	return s.Doctor.Run(ctx)
}

func (s *Service) ActivityTail(n int) []activity.Event {
	return s.Activity.Tail(n)
}

func (s *Service) Now() time.Time {
	return s.now()
}

// logActivity never fails the operation that produced the event.
func (s *Service) logActivity(ctx context.Context, ev activity.Event) {
	if err := s.Activity.Log(ev); err != nil {
		logging.G(ctx).WithError(err).Warn("activity log write failed")
	}
}

func foundMessage(n int) string {
	if n == 1 {
		return "found 1 skill"
	}
	return fmt.Sprintf("found %d skills", n)
}
