package bulkops

import (
	"context"
	"fmt"

	"golang.org/x/mod/semver"

	"skillman/internal/skill"
)

// CheckQuality runs the quality checker over every record, including
// those without metadata. A parsed score is persisted into the sidecar;
// last_updated stays untouched because scoring is not updating.
func (s *Service) CheckQuality(ctx context.Context, records []skill.Record, progress ProgressFunc) (Summary, error) {
	if err := s.quality.Probe(); err != nil {
		return Summary{}, err
	}
	unlock, err := s.acquireLock()
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	sum := Summary{Op: "check", Total: len(records)}
	for i, rec := range records {
		s.emit(progress, Progress{Phase: "start", Index: i + 1, Total: len(records), Skill: rec.Name})
		out := s.checkOne(ctx, rec)
		sum.add(out)
		s.emit(progress, Progress{Phase: "done", Index: i + 1, Total: len(records), Skill: rec.Name, Outcome: &out})
	}
	s.logPass(ctx, sum)
	return sum, nil
}

func (s *Service) checkOne(ctx context.Context, rec skill.Record) Outcome {
	res, err := s.quality.Check(ctx, rec.Path)
	if err != nil {
		return Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
	}
	if res.Score == nil {
		return Outcome{Skill: rec.Name, Status: StatusOK, Detail: "completed, no score reported"}
	}
	if err := s.persistScore(rec, *res.Score); err != nil {
		return Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
	}
	return Outcome{
		Skill:  rec.Name,
		Status: StatusOK,
		Detail: fmt.Sprintf("score %.1f/10", *res.Score),
		Score:  res.Score,
	}
}

// persistScore writes the score into the sidecar. A skill without one
// gets a fresh sidecar carrying the score but no last_updated, so its
// freshness stays "no data" until it is actually updated.
func (s *Service) persistScore(rec skill.Record, score float64) error {
	var meta skill.Metadata
	if rec.Meta != nil {
		meta = *rec.Meta
	} else {
		created := s.now().UTC()
		meta.Version = skill.InitialVersion
		meta.Created = &created
	}
	meta.Stats.QualityScore = &score
	return skill.SaveMetadata(rec.Path, meta)
}

// CheckUpdates asks the updater about every record that has metadata;
// the rest are skipped, not failed. When both the current and the
// candidate version parse as semver, a candidate no newer than the
// current one is reported as up to date regardless of the tool's
// marker.
func (s *Service) CheckUpdates(ctx context.Context, records []skill.Record, progress ProgressFunc) (Summary, error) {
	if err := s.updater.Probe(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Op: "update-check", Total: len(records)}
	for i, rec := range records {
		s.emit(progress, Progress{Phase: "start", Index: i + 1, Total: len(records), Skill: rec.Name})
		out := s.checkUpdatesOne(ctx, rec)
		if out.UpdateAvailable {
			sum.UpdatesAvailable++
		}
		sum.add(out)
		s.emit(progress, Progress{Phase: "done", Index: i + 1, Total: len(records), Skill: rec.Name, Outcome: &out})
	}
	s.logPass(ctx, sum)
	return sum, nil
}

func (s *Service) checkUpdatesOne(ctx context.Context, rec skill.Record) Outcome {
	if !rec.HasMetadata {
		return Outcome{Skill: rec.Name, Status: StatusSkipped, Detail: "no metadata"}
	}
	check, err := s.updater.CheckUpdates(ctx, rec.Path)
	if err != nil {
		return Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
	}

	available := check.Available
	if available && check.Version != "" && !newerVersion(check.Version, rec.Version()) {
		available = false
	}
	out := Outcome{Skill: rec.Name, Status: StatusOK, UpdateAvailable: available, Version: check.Version}
	if !available {
		out.Detail = "up to date"
		out.Version = ""
		return out
	}
	out.Detail = "updates available"
	if check.Version != "" {
		out.Detail += ": " + check.Version
	}
	return out
}

// newerVersion reports whether candidate is strictly newer than
// current. Unparsable versions trust the tool's word.
func newerVersion(candidate, current string) bool {
	c := skill.NormalizeVersion(candidate)
	cur := skill.NormalizeVersion(current)
	if !semver.IsValid(c) || !semver.IsValid(cur) {
		return true
	}
	return semver.Compare(c, cur) > 0
}

// Update applies updates to every record that has metadata. On tool
// success the sidecar is refreshed: last_updated becomes now and the
// version is replaced when the tool reports one. Dry runs pass the flag
// through and write nothing.
func (s *Service) Update(ctx context.Context, records []skill.Record, dryRun bool, progress ProgressFunc) (Summary, error) {
	if err := s.updater.Probe(); err != nil {
		return Summary{}, err
	}
	if !dryRun {
		unlock, err := s.acquireLock()
		if err != nil {
			return Summary{}, err
		}
		defer unlock()
	}

	sum := Summary{Op: "update", DryRun: dryRun, Total: len(records)}
	for i, rec := range records {
		s.emit(progress, Progress{Phase: "start", Index: i + 1, Total: len(records), Skill: rec.Name})
		out := s.updateOne(ctx, rec, dryRun)
		sum.add(out)
		s.emit(progress, Progress{Phase: "done", Index: i + 1, Total: len(records), Skill: rec.Name, Outcome: &out})
	}
	s.logPass(ctx, sum)
	return sum, nil
}

func (s *Service) updateOne(ctx context.Context, rec skill.Record, dryRun bool) Outcome {
	if !rec.HasMetadata {
		return Outcome{Skill: rec.Name, Status: StatusSkipped, Detail: "no metadata"}
	}
	res, err := s.updater.Update(ctx, rec.Path, dryRun)
	if err != nil {
		return Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
	}
	if dryRun {
		return Outcome{Skill: rec.Name, Status: StatusOK, Detail: "dry run, nothing written", Version: res.Version}
	}

	meta := *rec.Meta
	updated := s.now().UTC()
	meta.LastUpdated = &updated
	if res.Version != "" {
		meta.Version = res.Version
	}
	if err := skill.SaveMetadata(rec.Path, meta); err != nil {
		return Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
	}

	out := Outcome{Skill: rec.Name, Status: StatusOK, Detail: "updated", Version: res.Version}
	if res.Version != "" {
		out.Detail = "updated to " + res.Version
	}
	return out
}

// InitMetadata writes a fresh sidecar for exactly the records lacking
// one. A Total of zero means every skill already had metadata.
func (s *Service) InitMetadata(ctx context.Context, records []skill.Record, progress ProgressFunc) (Summary, error) {
	var targets []skill.Record
	for _, rec := range records {
		if !rec.HasMetadata {
			targets = append(targets, rec)
		}
	}
	sum := Summary{Op: "init", Total: len(targets)}
	if len(targets) == 0 {
		return sum, nil
	}

	unlock, err := s.acquireLock()
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	for i, rec := range targets {
		s.emit(progress, Progress{Phase: "start", Index: i + 1, Total: len(targets), Skill: rec.Name})
		out := Outcome{Skill: rec.Name, Status: StatusOK, Detail: "metadata created"}
		if err := skill.SaveMetadata(rec.Path, skill.NewMetadata(s.now())); err != nil {
			out = Outcome{Skill: rec.Name, Status: StatusFailed, Detail: err.Error()}
		}
		sum.add(out)
		s.emit(progress, Progress{Phase: "done", Index: i + 1, Total: len(targets), Skill: rec.Name, Outcome: &out})
	}
	s.logPass(ctx, sum)
	return sum, nil
}
