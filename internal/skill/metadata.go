package skill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"skillman/internal/fsutil"
)

// MetadataFilename is the sidecar stored next to SKILL.md.
const MetadataFilename = ".skill_metadata.json"

// InitialVersion is recorded when metadata is created for a skill that
// never had any.
const InitialVersion = "0.1.0"

// Metadata mirrors the sidecar document.
type Metadata struct {
	Version     string     `json:"version,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Stats       Stats      `json:"stats"`
}

// Stats carries the content counters and the quality score.
type Stats struct {
	TotalPages      int      `json:"total_pages"`
	TotalLinks      int      `json:"total_links"`
	TotalCodeBlocks int      `json:"total_code_blocks"`
	QualityScore    *float64 `json:"quality_score,omitempty"`
}

// sidecarDoc is the on-disk shape. Timestamps stay strings so that
// documents written by older tooling (naive local timestamps, or a
// top-level quality_score with no stats object) still load.
type sidecarDoc struct {
	Version      string        `json:"version,omitempty"`
	Created      string        `json:"created,omitempty"`
	LastUpdated  string        `json:"last_updated,omitempty"`
	Stats        *sidecarStats `json:"stats,omitempty"`
	QualityScore *float64      `json:"quality_score,omitempty"`
}

type sidecarStats struct {
	TotalPages      int      `json:"total_pages"`
	TotalLinks      int      `json:"total_links"`
	TotalCodeBlocks int      `json:"total_code_blocks"`
	QualityScore    *float64 `json:"quality_score,omitempty"`
}

// MetadataPath returns the sidecar path for a skill directory.
func MetadataPath(dir string) string {
	return filepath.Join(dir, MetadataFilename)
}

// LoadMetadata reads the sidecar for a skill directory. A missing file
// yields (nil, nil); a malformed one yields (nil, error) so the skill
// degrades to "no metadata" rather than failing a scan.
func LoadMetadata(dir string) (*Metadata, error) {
	raw, err := os.ReadFile(MetadataPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("META_READ: %w", err)
	}

	var doc sidecarDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("META_PARSE: %s: %w", MetadataPath(dir), err)
	}

	meta := Metadata{
		Version:     doc.Version,
		Created:     parseStamp(doc.Created),
		LastUpdated: parseStamp(doc.LastUpdated),
	}
	if doc.Stats != nil {
		meta.Stats = Stats{
			TotalPages:      doc.Stats.TotalPages,
			TotalLinks:      doc.Stats.TotalLinks,
			TotalCodeBlocks: doc.Stats.TotalCodeBlocks,
			QualityScore:    doc.Stats.QualityScore,
		}
	} else if doc.QualityScore != nil {
		meta.Stats.QualityScore = doc.QualityScore
	}
	return &meta, nil
}

// SaveMetadata writes the sidecar atomically. Timestamps are stored as
// RFC 3339 UTC regardless of how they were read.
func SaveMetadata(dir string, meta Metadata) error {
	doc := sidecarDoc{
		Version:     meta.Version,
		Created:     formatStamp(meta.Created),
		LastUpdated: formatStamp(meta.LastUpdated),
		Stats: &sidecarStats{
			TotalPages:      meta.Stats.TotalPages,
			TotalLinks:      meta.Stats.TotalLinks,
			TotalCodeBlocks: meta.Stats.TotalCodeBlocks,
			QualityScore:    meta.Stats.QualityScore,
		},
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("META_ENCODE: %w", err)
	}
	raw = append(raw, '\n')
	if err := fsutil.AtomicWrite(MetadataPath(dir), raw, 0o644); err != nil {
		return fmt.Errorf("META_WRITE: %w", err)
	}
	return nil
}

// NewMetadata returns the document recorded when a skill gains metadata
// for the first time.
func NewMetadata(now time.Time) Metadata {
	ts := now.UTC()
	return Metadata{
		Version:     InitialVersion,
		Created:     &ts,
		LastUpdated: &ts,
	}
}

// stampLayouts lists accepted timestamp shapes, most specific first.
// The fractional-second layouts also match whole seconds.
var stampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseStamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts
	}
	// Naive timestamps were written by local tooling in local time.
	for _, layout := range stampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &ts
		}
	}
	return nil
}

func formatStamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
