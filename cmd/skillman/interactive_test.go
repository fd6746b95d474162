package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillman/internal/app"
	"skillman/internal/config"
	"skillman/internal/registry"
)

func newTestService(t *testing.T, skills ...string) (*app.Service, string) {
	t.Helper()
	root := seedHome(t, skills...)
	svc, err := app.New(app.Options{})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	if _, err := svc.Scan(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return svc, root
}

func runLoop(t *testing.T, svc *app.Service, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runInteractive(context.Background(), svc, registry.SortName, strings.NewReader(input), &out); err != nil {
		t.Fatalf("interactive loop: %v", err)
	}
	return out.String()
}

func TestInteractiveInvalidChoiceThenExit(t *testing.T) {
	svc, _ := newTestService(t, "react")
	out := runLoop(t, svc, "9\n0\n")
	if !strings.Contains(out, "Quick actions") {
		t.Fatalf("expected menu, got %q", out)
	}
	if !strings.Contains(out, "[1] Check all for updates") {
		t.Fatalf("expected menu entries, got %q", out)
	}
	if !strings.Contains(out, "Invalid choice.") {
		t.Fatalf("expected invalid choice message, got %q", out)
	}
}

func TestInteractiveExitsOnEOF(t *testing.T) {
	svc, _ := newTestService(t, "react")
	out := runLoop(t, svc, "")
	if !strings.Contains(out, "SKILL DASHBOARD") {
		t.Fatalf("expected one render before EOF, got %q", out)
	}
}

func TestInteractiveShowDetails(t *testing.T) {
	svc, _ := newTestService(t, "react")
	out := runLoop(t, svc, "6\nreact\n0\n")
	if !strings.Contains(out, "Skill: react") {
		t.Fatalf("expected details view, got %q", out)
	}
	if !strings.Contains(out, "Skill name: ") {
		t.Fatalf("expected name prompt, got %q", out)
	}
}

func TestInteractiveShowUnknownSkill(t *testing.T) {
	svc, _ := newTestService(t, "react")
	out := runLoop(t, svc, "6\nnope\n0\n")
	if !strings.Contains(out, "SCAN_UNKNOWN_SKILL") {
		t.Fatalf("expected unknown skill error, got %q", out)
	}
}

func TestInteractiveReportToPath(t *testing.T) {
	svc, _ := newTestService(t, "react")
	target := filepath.Join(t.TempDir(), "out.md")
	out := runLoop(t, svc, "5\n"+target+"\n0\n")
	if !strings.Contains(out, "Report saved to: "+target) {
		t.Fatalf("expected save message, got %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# Skill Status Report") {
		t.Fatalf("unexpected report body: %q", string(data))
	}
}

func TestInteractiveReportDefaultPath(t *testing.T) {
	svc, _ := newTestService(t, "react")
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })
	out := runLoop(t, svc, "5\n\n0\n")
	if !strings.Contains(out, "Output path [skill-report.md]: ") {
		t.Fatalf("expected default prompt, got %q", out)
	}
	if !strings.Contains(out, "Report saved to: skill-report.md") {
		t.Fatalf("expected save message, got %q", out)
	}
	if _, err := os.Stat("skill-report.md"); err != nil {
		t.Fatalf("expected default report file: %v", err)
	}
}

func TestInteractiveRescanPicksUpNewSkill(t *testing.T) {
	svc, root := newTestService(t, "react")
	vue := filepath.Join(root, "vue")
	if err := os.MkdirAll(filepath.Join(vue, "references"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(vue, "SKILL.md"), []byte("# vue\n"), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
	out := runLoop(t, svc, "7\n0\n")
	if !strings.Contains(out, "Skills (1 total)") {
		t.Fatalf("expected initial render with one skill, got %q", out)
	}
	if !strings.Contains(out, "Skills (2 total)") {
		t.Fatalf("expected rescan to find vue, got %q", out)
	}
}

func TestInteractiveAddSearchPath(t *testing.T) {
	svc, _ := newTestService(t, "react")
	extra := t.TempDir()
	dir := filepath.Join(extra, "extra-skill")
	if err := os.MkdirAll(filepath.Join(dir, "references"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# extra\n"), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}

	out := runLoop(t, svc, "8\n"+extra+"\n0\n")
	if !strings.Contains(out, "added search path "+extra) {
		t.Fatalf("expected add message, got %q", out)
	}
	if !strings.Contains(out, "extra-skill") {
		t.Fatalf("expected rescan to pick up the new root, got %q", out)
	}

	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !config.HasSearchPath(cfg, extra) {
		t.Fatalf("expected %s persisted in config", extra)
	}
}

func TestInteractiveInitMetadata(t *testing.T) {
	svc, root := newTestService(t, "react")
	out := runLoop(t, svc, "4\n0\n")
	if !strings.Contains(out, "[1/1] react ... metadata created") {
		t.Fatalf("expected init progress, got %q", out)
	}
	if !strings.Contains(out, "1 succeeded, 0 failed") {
		t.Fatalf("expected summary, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(root, "react", ".skill_metadata.json")); err != nil {
		t.Fatalf("expected sidecar: %v", err)
	}

	out = runLoop(t, svc, "4\n0\n")
	if !strings.Contains(out, "All skills already have metadata") {
		t.Fatalf("expected noop message, got %q", out)
	}
}

func TestInteractiveBulkOnEmptyRegistry(t *testing.T) {
	svc, _ := newTestService(t)
	out := runLoop(t, svc, "2\n0\n")
	if !strings.Contains(out, "No skills found") {
		t.Fatalf("expected empty-set message, got %q", out)
	}
}
