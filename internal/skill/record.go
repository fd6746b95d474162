// Package skill models one discovered skill directory: its identity,
// the optional metadata sidecar, and what SKILL.md says about it.
package skill

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Filename is the marker document every skill directory carries.
const Filename = "SKILL.md"

// ReferencesDir holds the per-skill reference pages.
const ReferencesDir = "references"

// Record represents one discovered skill. Records are rebuilt on every
// scan; nothing here persists beyond the name and path.
type Record struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	HasMetadata bool      `json:"has_metadata"`
	Meta        *Metadata `json:"metadata,omitempty"`
	Doc         DocInfo   `json:"doc"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// DocInfo captures cheap filesystem facts about the skill's documents.
type DocInfo struct {
	SkillMDSize    int64     `json:"skill_md_size"`
	SkillMDModTime time.Time `json:"skill_md_mod_time"`
	ReferencePages int       `json:"reference_pages"`
}

// QualityScore returns the recorded score, if any.
func (r Record) QualityScore() (float64, bool) {
	if r.Meta == nil || r.Meta.Stats.QualityScore == nil {
		return 0, false
	}
	return *r.Meta.Stats.QualityScore, true
}

// LastUpdated returns the recorded last-update time, if any.
func (r Record) LastUpdated() (time.Time, bool) {
	if r.Meta == nil || r.Meta.LastUpdated == nil {
		return time.Time{}, false
	}
	return *r.Meta.LastUpdated, true
}

// Version returns the raw recorded version string, possibly empty.
func (r Record) Version() string {
	if r.Meta == nil {
		return ""
	}
	return strings.TrimSpace(r.Meta.Version)
}

// DisplayVersion returns the version with a leading "v", or "-" when unset.
func (r Record) DisplayVersion() string {
	v := r.Version()
	if v == "" {
		return "-"
	}
	return NormalizeVersion(v)
}

// NormalizeVersion prefixes "v" so the string can be fed to
// golang.org/x/mod/semver. Empty input stays empty.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Load assembles the Record for one skill directory. The returned error
// is non-fatal: it reports a malformed metadata sidecar, and the record
// is still usable (it simply carries no metadata).
func Load(dir string) (Record, error) {
	rec := Record{Name: filepath.Base(dir), Path: dir}

	meta, metaErr := LoadMetadata(dir)
	if meta != nil {
		rec.HasMetadata = true
		rec.Meta = meta
	}

	if info, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
		rec.Doc.SkillMDSize = info.Size()
		rec.Doc.SkillMDModTime = info.ModTime()
	}
	rec.Doc.ReferencePages = countReferencePages(dir)

	if fm, err := ParseSkillMD(filepath.Join(dir, Filename)); err == nil {
		rec.Title = fm.Name
		rec.Description = fm.Description
	}

	return rec, metaErr
}

func countReferencePages(dir string) int {
	entries, err := os.ReadDir(filepath.Join(dir, ReferencesDir))
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			count++
		}
	}
	return count
}
