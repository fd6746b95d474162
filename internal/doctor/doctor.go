// Package doctor runs environment diagnostics: config, state root,
// search paths, external tools and the activity log.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"skillman/internal/config"
	"skillman/internal/discovery"
	"skillman/internal/store"
)

type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Report struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

type prober interface {
	Probe() error
}

// Service holds what the checks need. Quality and Updater may be nil,
// which skips the tool probes.
type Service struct {
	ConfigPath string
	StateRoot  string
	Quality    prober
	Updater    prober
}

// Run executes every check and never fails: problems become findings.
// Healthy is true exactly when no error-level finding was produced;
// missing tools and empty search paths only warn, since the dashboard
// works without them.
func (s *Service) Run(ctx context.Context) Report {
	findings := []Finding{}
	add := func(code, level, message string) {
		findings = append(findings, Finding{Code: code, Level: level, Message: message})
	}

	cfgPath := s.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	var cfg config.Config
	if _, err := os.Stat(cfgPath); err != nil {
		add("CONFIG_MISSING", "error", cfgPath+" not found; run any skillman command to create it")
	} else if loaded, err := config.Load(cfgPath); err != nil {
		add("CONFIG_INVALID", "error", err.Error())
	} else {
		cfg = loaded
		add("CONFIG_OK", "ok", cfgPath)
	}

	root := s.StateRoot
	if root == "" {
		root = store.Root()
	}
	if err := probeWritable(root); err != nil {
		add("STATE_UNWRITABLE", "error", err.Error())
	} else {
		add("STATE_OK", "ok", root)
	}

	for _, search := range cfg.Paths.Search {
		roots, _, err := discovery.ExpandSearchPath(search)
		switch {
		case err != nil:
			add("PATHS_BAD_GLOB", "warn", err.Error())
		case len(roots) == 0:
			add("PATHS_EMPTY", "warn", fmt.Sprintf("search path %s matches no existing directory", search))
		}
	}

	if s.Quality != nil {
		if err := s.Quality.Probe(); err != nil {
			add("TOOL_QUALITY_MISSING", "warn", err.Error())
		} else {
			add("TOOL_QUALITY_OK", "ok", "quality checker resolvable")
		}
	}
	if s.Updater != nil {
		if err := s.Updater.Probe(); err != nil {
			add("TOOL_UPDATER_MISSING", "warn", err.Error())
		} else {
			add("TOOL_UPDATER_OK", "ok", "updater resolvable")
		}
	}

	activityPath := store.ActivityPath(root)
	if _, err := os.Stat(activityPath); err == nil {
		if f, err := os.Open(activityPath); err != nil {
			add("ACTIVITY_UNREADABLE", "warn", err.Error())
		} else {
			f.Close()
		}
	}

	healthy := true
	for _, f := range findings {
		if f.Level == "error" {
			healthy = false
			break
		}
	}
	return Report{Healthy: healthy, Findings: findings}
}

// probeWritable creates the root if needed and round-trips a scratch
// file through it.
func probeWritable(root string) error {
	if err := store.EnsureLayout(root); err != nil {
		return err
	}
	probe := filepath.Join(root, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok\n"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
