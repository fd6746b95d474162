// Package registry holds the in-memory record set of the most recent
// scan and the sorted and filtered views the CLI renders. It never
// touches the filesystem; rescans replace the whole set.
package registry

import (
	"fmt"
	"sort"
	"time"

	"skillman/internal/discovery"
	"skillman/internal/skill"
	"skillman/internal/status"
)

// SortKey selects a dashboard ordering.
type SortKey string

const (
	SortName    SortKey = "name"
	SortAge     SortKey = "age"
	SortQuality SortKey = "quality"
)

// ParseSortKey validates a --sort flag value.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortName, SortAge, SortQuality:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q (valid: name, age, quality)", s)
}

// Registry is the record set of one scan.
type Registry struct {
	result discovery.Result
}

func New(res discovery.Result) *Registry {
	return &Registry{result: res}
}

// Replace swaps in the result of a fresh scan.
func (r *Registry) Replace(res discovery.Result) {
	r.result = res
}

// Records returns the records in name order. The slice is a copy, so
// callers may reorder it freely.
func (r *Registry) Records() []skill.Record {
	out := make([]skill.Record, len(r.result.Records))
	copy(out, r.result.Records)
	return out
}

func (r *Registry) Len() int {
	return len(r.result.Records)
}

// Duplicates lists skill names that appeared under more than one
// directory during the scan.
func (r *Registry) Duplicates() []discovery.Duplicate {
	return r.result.Duplicates
}

// MissingRoots lists configured search paths that matched nothing.
func (r *Registry) MissingRoots() []string {
	return r.result.MissingRoots
}

// Get finds a record by its directory name.
func (r *Registry) Get(name string) (skill.Record, bool) {
	for _, rec := range r.result.Records {
		if rec.Name == name {
			return rec, true
		}
	}
	return skill.Record{}, false
}

// SortedBy returns the records in display order. Age puts the oldest
// first with no-data records last; quality puts the highest score first
// with unscored records last. Every ordering breaks ties by name
// ascending, so renders are deterministic.
func (r *Registry) SortedBy(key SortKey, now time.Time) []skill.Record {
	records := r.Records()
	switch key {
	case SortAge:
		sort.SliceStable(records, func(i, j int) bool {
			ti, iok := records[i].LastUpdated()
			tj, jok := records[j].LastUpdated()
			if iok != jok {
				return iok
			}
			if iok && !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return records[i].Name < records[j].Name
		})
	case SortQuality:
		sort.SliceStable(records, func(i, j int) bool {
			si, iok := records[i].QualityScore()
			sj, jok := records[j].QualityScore()
			if iok != jok {
				return iok
			}
			if iok && si != sj {
				return si > sj
			}
			return records[i].Name < records[j].Name
		})
	}
	// Discovery already sorts by name; SortName keeps that order.
	return records
}

// WithoutMetadata returns the skills metadata initialization would
// touch, in name order.
func (r *Registry) WithoutMetadata() []skill.Record {
	var out []skill.Record
	for _, rec := range r.result.Records {
		if !rec.HasMetadata {
			out = append(out, rec)
		}
	}
	return out
}

// WithoutScore returns the records carrying no quality score.
func (r *Registry) WithoutScore() []skill.Record {
	var out []skill.Record
	for _, rec := range r.result.Records {
		if _, ok := rec.QualityScore(); !ok {
			out = append(out, rec)
		}
	}
	return out
}

// Outdated returns the records classified Stale at now.
func (r *Registry) Outdated(now time.Time, policy status.Policy) []skill.Record {
	var out []skill.Record
	for _, rec := range r.result.Records {
		if policy.Classify(rec, now) == status.Stale {
			out = append(out, rec)
		}
	}
	return out
}
