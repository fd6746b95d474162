package toolrunner

import (
	"context"
	"strings"
	"testing"
)

type fakeRunner struct {
	out   string
	err   error
	name  string
	args  []string
	calls int
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	f.calls++
	f.name = name
	f.args = args
	return f.out, f.err
}

func TestQualityCheckParsesScore(t *testing.T) {
	fake := &fakeRunner{out: "Checking...\nOverall Score: 8.5/10\nDone."}
	checker := &QualityChecker{command: "skill-quality-check", runner: fake}

	res, err := checker.Check(context.Background(), "/skills/react")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Score == nil || *res.Score != 8.5 {
		t.Fatalf("score = %v, want 8.5", res.Score)
	}
	if fake.name != "skill-quality-check" {
		t.Fatalf("command = %q", fake.name)
	}
	if len(fake.args) != 2 || fake.args[0] != "/skills/react" || fake.args[1] != "--skip-ai" {
		t.Fatalf("args = %v", fake.args)
	}
}

func TestQualityCheckLastScoreWins(t *testing.T) {
	out := "Overall Score: 5.0/10\nretrying\nOverall Score: 7.5/10"
	if score := parseScore(out); score == nil || *score != 7.5 {
		t.Fatalf("score = %v, want 7.5", score)
	}
}

func TestQualityCheckWithoutScoreIsSuccess(t *testing.T) {
	fake := &fakeRunner{out: "all checks passed"}
	checker := &QualityChecker{command: "check", runner: fake}

	res, err := checker.Check(context.Background(), "/skills/vue")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Score != nil {
		t.Fatalf("score = %v, want absent", *res.Score)
	}
	if res.Output != "all checks passed" {
		t.Fatalf("output = %q", res.Output)
	}
}

func TestQualityCheckCommandWithArguments(t *testing.T) {
	fake := &fakeRunner{out: ""}
	checker := &QualityChecker{command: "python3 /opt/checker.py", runner: fake}

	if _, err := checker.Check(context.Background(), "/skills/react"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if fake.name != "python3" {
		t.Fatalf("command = %q", fake.name)
	}
	want := []string{"/opt/checker.py", "/skills/react", "--skip-ai"}
	if len(fake.args) != len(want) {
		t.Fatalf("args = %v", fake.args)
	}
	for i := range want {
		if fake.args[i] != want[i] {
			t.Fatalf("args = %v, want %v", fake.args, want)
		}
	}
}

func TestQualityCheckUnconfigured(t *testing.T) {
	checker := &QualityChecker{command: "  ", runner: &fakeRunner{}}
	_, err := checker.Check(context.Background(), "/skills/react")
	if err == nil || !strings.Contains(err.Error(), "TOOL_NOT_FOUND") {
		t.Fatalf("expected TOOL_NOT_FOUND, got %v", err)
	}
}

func TestParseScoreIgnoresGarbage(t *testing.T) {
	if score := parseScore("Overall Score: high/10"); score != nil {
		t.Fatalf("score = %v, want nil", *score)
	}
	if score := parseScore(""); score != nil {
		t.Fatalf("score = %v, want nil", *score)
	}
}

func TestCheckUpdatesMarker(t *testing.T) {
	cases := []struct {
		out       string
		available bool
		version   string
	}{
		{"Checking...\nUpdates available\nDone", true, ""},
		{"Updates available: 2.0.0", true, "2.0.0"},
		{"Everything up to date", false, ""},
	}
	for _, tc := range cases {
		fake := &fakeRunner{out: tc.out}
		updater := &Updater{command: "skill-update", runner: fake}

		check, err := updater.CheckUpdates(context.Background(), "/skills/react")
		if err != nil {
			t.Fatalf("CheckUpdates(%q): %v", tc.out, err)
		}
		if check.Available != tc.available || check.Version != tc.version {
			t.Fatalf("CheckUpdates(%q) = %+v", tc.out, check)
		}
		if len(fake.args) != 2 || fake.args[1] != "--check-updates" {
			t.Fatalf("args = %v", fake.args)
		}
	}
}

func TestUpdatePassesDryRunAndParsesVersion(t *testing.T) {
	fake := &fakeRunner{out: "Applying...\nUpdated to: 2.1.0"}
	updater := &Updater{command: "skill-update", runner: fake}

	res, err := updater.Update(context.Background(), "/skills/react", true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Version != "2.1.0" {
		t.Fatalf("version = %q", res.Version)
	}
	want := []string{"/skills/react", "--update", "--dry-run"}
	if len(fake.args) != len(want) {
		t.Fatalf("args = %v", fake.args)
	}
	for i := range want {
		if fake.args[i] != want[i] {
			t.Fatalf("args = %v, want %v", fake.args, want)
		}
	}
}

func TestUpdateWithoutDryRun(t *testing.T) {
	fake := &fakeRunner{out: "done"}
	updater := &Updater{command: "skill-update", runner: fake}

	res, err := updater.Update(context.Background(), "/skills/vue", false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Version != "" {
		t.Fatalf("version = %q, want empty", res.Version)
	}
	for _, arg := range fake.args {
		if arg == "--dry-run" {
			t.Fatal("--dry-run must not be passed")
		}
	}
}

func TestProbe(t *testing.T) {
	if err := (&QualityChecker{command: ""}).Probe(); err == nil || !strings.Contains(err.Error(), "TOOL_NOT_FOUND") {
		t.Fatalf("empty command: %v", err)
	}
	if err := (&Updater{command: "skillman-test-no-such-binary"}).Probe(); err == nil || !strings.Contains(err.Error(), "TOOL_NOT_FOUND") {
		t.Fatalf("missing binary: %v", err)
	}
}
