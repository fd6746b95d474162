// Package discovery finds skill directories under the configured search
// paths. A directory qualifies when it contains both SKILL.md and a
// references/ subdirectory; the search root itself is checked first,
// otherwise its direct subdirectories are (no deeper recursion).
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"

	"skillman/internal/config"
	"skillman/internal/logging"
	"skillman/internal/skill"
)

// Options control a scan.
type Options struct {
	SearchPaths []string
	Excludes    []string
}

// Duplicate records a skill name seen under more than one directory.
// The first discovery wins; the rest are reported, never silently
// dropped.
type Duplicate struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kept string `json:"kept_path"`
}

// Result is everything one scan produced. MissingRoots lists search
// paths (or glob expansions) that matched nothing scannable.
type Result struct {
	Records      []skill.Record `json:"records"`
	Duplicates   []Duplicate    `json:"duplicates,omitempty"`
	MissingRoots []string       `json:"missing_roots,omitempty"`
}

// Scan walks the search paths in configuration order and returns the
// discovered records sorted by name. Skill directories with malformed
// metadata degrade to records without metadata; the sidecar problem is
// logged and the scan continues.
func Scan(ctx context.Context, opts Options) (Result, error) {
	excludes, err := compileExcludes(opts.Excludes)
	if err != nil {
		return Result{}, err
	}

	var res Result
	seen := make(map[string]string)

	for _, search := range opts.SearchPaths {
		roots, missing, err := ExpandSearchPath(search)
		if err != nil {
			return Result{}, err
		}
		res.MissingRoots = append(res.MissingRoots, missing...)

		for _, root := range roots {
			dirs, err := skillDirs(root)
			if err != nil {
				logging.G(ctx).WithField("root", root).WithError(err).Warn("search root not readable")
				res.MissingRoots = append(res.MissingRoots, root)
				continue
			}
			for _, dir := range dirs {
				name := filepath.Base(dir)
				if matchesAny(excludes, name) {
					continue
				}
				if kept, ok := seen[name]; ok {
					res.Duplicates = append(res.Duplicates, Duplicate{Name: name, Path: dir, Kept: kept})
					continue
				}
				seen[name] = dir

				rec, metaErr := skill.Load(dir)
				if metaErr != nil {
					logging.G(ctx).WithField("skill", name).WithError(metaErr).Warn("ignoring malformed metadata sidecar")
				}
				res.Records = append(res.Records, rec)
			}
		}
	}

	sort.Slice(res.Records, func(i, j int) bool { return res.Records[i].Name < res.Records[j].Name })
	return res, nil
}

// ExpandSearchPath turns one configured search path into scannable
// roots. Paths without glob metacharacters pass through unchanged;
// everything else is expanded with doublestar (*, **, {a,b}). Paths
// that resolve to nothing land in missing; only a bad glob is an error.
func ExpandSearchPath(search string) (roots, missing []string, err error) {
	expanded, expandErr := config.ExpandPath(search)
	if expandErr != nil {
		return nil, []string{search}, nil
	}

	if !strings.ContainsAny(expanded, "*?[{") {
		if isDir(expanded) {
			return []string{absolute(expanded)}, nil, nil
		}
		return nil, []string{expanded}, nil
	}

	matches, err := doublestar.FilepathGlob(expanded)
	if err != nil {
		return nil, nil, fmt.Errorf("SCAN_GLOB: %s: %w", search, err)
	}
	sort.Strings(matches)
	for _, m := range matches {
		if isDir(m) {
			roots = append(roots, absolute(m))
		}
	}
	if len(roots) == 0 {
		return nil, []string{expanded}, nil
	}
	return roots, nil, nil
}

// skillDirs returns the skill directories under one root: the root
// itself when it qualifies, otherwise its qualifying direct
// subdirectories in name order.
func skillDirs(root string) ([]string, error) {
	if isSkillDir(root) {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		candidate := filepath.Join(root, entry.Name())
		if !entry.IsDir() {
			// Symlinked directories report as non-dirs here.
			info, err := os.Stat(candidate)
			if err != nil || !info.IsDir() {
				continue
			}
		}
		if isSkillDir(candidate) {
			dirs = append(dirs, candidate)
		}
	}
	return dirs, nil
}

func isSkillDir(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, skill.Filename)); err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, skill.ReferencesDir))
	return err == nil && info.IsDir()
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("SCAN_EXCLUDE: %s: %w", pattern, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

func matchesAny(matchers []glob.Glob, name string) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
