package skill

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSkillDir(t *testing.T, root, name, skillMD string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, ReferencesDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(skillMD), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadAssemblesRecord(t *testing.T) {
	doc := `---
name: React Best Practices
description: Patterns for modern React applications.
---

# React

Body text.
`
	dir := writeSkillDir(t, t.TempDir(), "react", doc)
	for _, page := range []string{"hooks.md", "STATE.MD", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, ReferencesDir, page), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, ReferencesDir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	updated := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	score := 8.5
	if err := SaveMetadata(dir, Metadata{
		Version:     "1.1.0",
		LastUpdated: &updated,
		Stats:       Stats{TotalPages: 2, QualityScore: &score},
	}); err != nil {
		t.Fatal(err)
	}

	rec, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Name != "react" || rec.Path != dir {
		t.Fatalf("identity = %q %q", rec.Name, rec.Path)
	}
	if !rec.HasMetadata || rec.Meta == nil {
		t.Fatal("expected metadata")
	}
	if got, ok := rec.QualityScore(); !ok || got != 8.5 {
		t.Fatalf("QualityScore = %v %v", got, ok)
	}
	if got, ok := rec.LastUpdated(); !ok || !got.Equal(updated) {
		t.Fatalf("LastUpdated = %v %v", got, ok)
	}
	if rec.Doc.ReferencePages != 2 {
		t.Fatalf("reference pages = %d, want 2", rec.Doc.ReferencePages)
	}
	if rec.Doc.SkillMDSize == 0 || rec.Doc.SkillMDModTime.IsZero() {
		t.Fatalf("doc info not populated: %+v", rec.Doc)
	}
	if rec.Title != "React Best Practices" {
		t.Fatalf("title = %q", rec.Title)
	}
	if !strings.Contains(rec.Description, "modern React") {
		t.Fatalf("description = %q", rec.Description)
	}
}

func TestLoadWithoutMetadata(t *testing.T) {
	dir := writeSkillDir(t, t.TempDir(), "vue", "# Vue\n")

	rec, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.HasMetadata || rec.Meta != nil {
		t.Fatalf("expected no metadata, got %+v", rec.Meta)
	}
	if _, ok := rec.QualityScore(); ok {
		t.Fatal("expected no quality score")
	}
	if _, ok := rec.LastUpdated(); ok {
		t.Fatal("expected no last updated")
	}
}

func TestLoadMalformedMetadataDegrades(t *testing.T) {
	dir := writeSkillDir(t, t.TempDir(), "django", "# Django\n")
	if err := os.WriteFile(MetadataPath(dir), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "META_PARSE") {
		t.Fatalf("expected META_PARSE error, got %v", err)
	}
	if rec.HasMetadata {
		t.Fatal("malformed sidecar must not count as metadata")
	}
	if rec.Name != "django" {
		t.Fatalf("record unusable after degrade: %+v", rec)
	}
}

func TestDisplayVersion(t *testing.T) {
	cases := []struct {
		meta *Metadata
		want string
	}{
		{nil, "-"},
		{&Metadata{Version: ""}, "-"},
		{&Metadata{Version: "  "}, "-"},
		{&Metadata{Version: "1.1.0"}, "v1.1.0"},
		{&Metadata{Version: "v2.0.0"}, "v2.0.0"},
	}
	for _, tc := range cases {
		rec := Record{Meta: tc.meta}
		if got := rec.DisplayVersion(); got != tc.want {
			t.Fatalf("DisplayVersion(%+v) = %q, want %q", tc.meta, got, tc.want)
		}
	}
}

func TestNormalizeVersion(t *testing.T) {
	if got := NormalizeVersion(""); got != "" {
		t.Fatalf("empty = %q", got)
	}
	if got := NormalizeVersion("1.2.3"); got != "v1.2.3" {
		t.Fatalf("bare = %q", got)
	}
	if got := NormalizeVersion("v1.2.3"); got != "v1.2.3" {
		t.Fatalf("prefixed = %q", got)
	}
}
