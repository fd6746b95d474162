package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("resolve repo root failed: %v", err)
	}
	return root
}

// buildCLI compiles the skillman binary into home/bin and returns its
// path plus the environment every invocation should run under: HOME and
// SKILLMAN_HOME pinned inside the sandbox, tool shims first on PATH.
func buildCLI(t *testing.T, home string) (string, []string) {
	t.Helper()
	root := repoRoot(t)
	goModCache := filepath.Join(os.TempDir(), "skillman-gomodcache")
	goCache := filepath.Join(os.TempDir(), "skillman-gocache")
	if err := os.MkdirAll(goModCache, 0o755); err != nil {
		t.Fatalf("create mod cache failed: %v", err)
	}
	if err := os.MkdirAll(goCache, 0o755); err != nil {
		t.Fatalf("create go cache failed: %v", err)
	}
	toolDir := filepath.Join(home, "tools")
	if err := os.MkdirAll(toolDir, 0o755); err != nil {
		t.Fatalf("create tool dir failed: %v", err)
	}

	env := append(os.Environ(),
		"HOME="+home,
		"SKILLMAN_HOME="+filepath.Join(home, ".skillman"),
		"PATH="+toolDir+string(os.PathListSeparator)+os.Getenv("PATH"),
		"GOMODCACHE="+goModCache,
		"GOCACHE="+goCache,
	)
	bin := filepath.Join(home, "bin", "skillman")
	if err := os.MkdirAll(filepath.Dir(bin), 0o755); err != nil {
		t.Fatalf("create bin dir failed: %v", err)
	}
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/skillman")
	cmd.Dir = root
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build cli failed: %v\n%s", err, string(out))
	}
	return bin, env
}

func runCLI(t *testing.T, bin string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %s\nargs=%v\noutput=%s", err, args, string(out))
	}
	return string(out)
}

func runCLIExpectFail(t *testing.T, bin string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected command to fail\nargs=%v\noutput=%s", args, string(out))
	}
	return string(out)
}

// writeSkill lays down one discoverable skill directory with n
// reference pages and no metadata sidecar.
func writeSkill(t *testing.T, root, name string, pages int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	refs := filepath.Join(dir, "references")
	if err := os.MkdirAll(refs, 0o755); err != nil {
		t.Fatalf("mkdir %s failed: %v", refs, err)
	}
	doc := fmt.Sprintf("---\nname: %s\ndescription: Fixture skill for %s\n---\n\n# %s\n", name, name, name)
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write SKILL.md failed: %v", err)
	}
	for i := 0; i < pages; i++ {
		page := filepath.Join(refs, fmt.Sprintf("page%d.md", i+1))
		if err := os.WriteFile(page, []byte("# page\n"), 0o644); err != nil {
			t.Fatalf("write %s failed: %v", page, err)
		}
	}
	return dir
}

// writeSidecar gives a skill a metadata file without going through the
// CLI, so flows can start from an already-tracked skill.
func writeSidecar(t *testing.T, dir, version, lastUpdated string, score float64) {
	t.Helper()
	blob := fmt.Sprintf(`{
  "version": %q,
  "created": "2026-01-01T00:00:00Z",
  "last_updated": %q,
  "stats": {
    "total_pages": 3,
    "total_links": 40,
    "total_code_blocks": 9,
    "quality_score": %.1f
  }
}
`, version, lastUpdated, score)
	if err := os.WriteFile(filepath.Join(dir, ".skill_metadata.json"), []byte(blob), 0o644); err != nil {
		t.Fatalf("write sidecar failed: %v", err)
	}
}

// writeTool drops an executable shim onto the PATH the CLI runs with.
func writeTool(t *testing.T, home, name, script string) {
	t.Helper()
	path := filepath.Join(home, "tools", name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write tool %s failed: %v", name, err)
	}
}

// seedConfig writes the skillman config by hand so the e2e package
// exercises the real parser instead of the config package.
func seedConfig(t *testing.T, home string, searchRoots []string, quality, updater string) {
	t.Helper()
	stateDir := filepath.Join(home, ".skillman")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir state dir failed: %v", err)
	}
	var search strings.Builder
	for i, root := range searchRoots {
		if i > 0 {
			search.WriteString(", ")
		}
		fmt.Fprintf(&search, "%q", root)
	}
	blob := fmt.Sprintf(`version = 1

[paths]
search = [%s]
exclude = []

[tools]
quality_checker = %q
updater = %q

[freshness]
fresh_within_days = 7
stale_after_days = 30

[logging]
level = "info"
format = "text"
`, search.String(), quality, updater)
	if err := os.WriteFile(filepath.Join(stateDir, "config.toml"), []byte(blob), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}
