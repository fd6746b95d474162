// Package dashboard renders the terminal dashboard and the skill
// details view. Rendering is a pure function of the view value: the
// same records and clock reading always produce identical bytes.
// Colors are applied to already-padded cells, so enabling them never
// changes the layout.
package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"skillman/internal/activity"
	"skillman/internal/discovery"
	"skillman/internal/skill"
	"skillman/internal/status"
)

const bannerWidth = 70

const (
	maxNameWidth   = 25
	recentActivity = 5
)

// View carries everything one dashboard render needs. Records must
// already be in display order.
type View struct {
	Now        time.Time
	Records    []skill.Record
	Snapshot   status.Snapshot
	Policy     status.Policy
	Activity   []activity.Event
	Duplicates []discovery.Duplicate
}

// Render produces the full dashboard.
func Render(v View) string {
	var b strings.Builder
	writeHeader(&b, v.Now)

	if len(v.Records) == 0 {
		b.WriteString("\n  No skills found.\n")
		b.WriteString("  Add a search path with 'skillman path add <dir>' and run 'skillman scan'.\n")
		return b.String()
	}

	writeTable(&b, v)
	writeStatistics(&b, v.Snapshot)
	writeInsights(&b, v)
	writeActivity(&b, v)
	return b.String()
}

func writeHeader(b *strings.Builder, now time.Time) {
	banner := strings.Repeat("=", bannerWidth)
	b.WriteString(banner + "\n")
	b.WriteString("  SKILL DASHBOARD\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(b, "  Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(banner + "\n")
}

func writeTable(b *strings.Builder, v View) {
	fmt.Fprintf(b, "\n  Skills (%d total)\n\n", len(v.Records))
	fmt.Fprintf(b, "  %2s  %-7s  %-25s  %-10s%8s   %-4s  %s\n",
		"#", "STATUS", "NAME", "VERSION", "QUALITY", "META", "UPDATED")

	for i, rec := range v.Records {
		level := v.Policy.Classify(rec, v.Now)
		statusCell := levelColor(level).Sprint(fmt.Sprintf("%-7s", string(level)))

		quality := "-"
		if score, ok := rec.QualityScore(); ok {
			quality = fmt.Sprintf("%.1f/10", score)
		}
		meta := "no"
		if rec.HasMetadata {
			meta = "yes"
		}
		var last *time.Time
		if ts, ok := rec.LastUpdated(); ok {
			last = &ts
		}

		fmt.Fprintf(b, "  %2d  %s  %-25s  %-10s%8s   %-4s  %s\n",
			i+1, statusCell, truncate(rec.Name, maxNameWidth), rec.DisplayVersion(),
			quality, meta, status.RelativeAge(v.Now, last))
	}
}

func writeStatistics(b *strings.Builder, snap status.Snapshot) {
	b.WriteString("\n  Statistics\n")

	b.WriteString("    Content\n")
	stat(b, "Total skills:", humanize.Comma(int64(snap.Total)))
	stat(b, "Reference pages:", humanize.Comma(int64(snap.TotalPages)))
	if snap.TotalLinks > 0 {
		stat(b, "Links indexed:", humanize.Comma(int64(snap.TotalLinks)))
	}
	if snap.TotalCodeBlocks > 0 {
		stat(b, "Code examples:", humanize.Comma(int64(snap.TotalCodeBlocks)))
	}

	b.WriteString("    Health\n")
	stat(b, "With metadata:", fmt.Sprintf("%d/%d", snap.WithMetadata, snap.Total))
	stat(b, "Without metadata:", fmt.Sprintf("%d", snap.WithoutMetadata))
	stat(b, "Average quality:", snap.AverageQualityLabel())
	stat(b, "Needing update:", fmt.Sprintf("%d", snap.NeedingUpdate))

	if snap.Scored() > 0 {
		b.WriteString("    Quality distribution\n")
		bucket(b, "Excellent (9-10)", snap.Excellent, snap.Total)
		bucket(b, "Good (7-9)", snap.Good, snap.Total)
		bucket(b, "Needs work (<7)", snap.NeedsWork, snap.Total)
	}
}

func stat(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "      %-20s%s\n", label, value)
}

func bucket(b *strings.Builder, label string, count, total int) {
	fmt.Fprintf(b, "      %-18s%s %3d%%  %s\n", label, bar(count, total, 10), percent(count, total), counted(count, "skill"))
}

// bar fills cells by truncation and leaves rounding to the percent
// label, matching the original renderer.
func bar(count, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(float64(count) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func writeInsights(b *strings.Builder, v View) {
	b.WriteString("\n  Insights\n")

	var lines []string
	if n := v.Snapshot.WithoutMetadata; n > 0 {
		lines = append(lines, fmt.Sprintf("- %s missing metadata: run 'skillman init'", counted(n, "skill")))
	}
	if n := v.Snapshot.NeedingUpdate; n > 0 {
		verb := "needs"
		if n != 1 {
			verb = "need"
		}
		staleDays := int(v.Policy.StaleAfter.Hours() / 24)
		lines = append(lines, fmt.Sprintf("- %s %s update (stale for more than %d days): run 'skillman update --check'",
			counted(n, "skill"), verb, staleDays))
	}
	if n := v.Snapshot.NoScore; n > 0 {
		lines = append(lines, fmt.Sprintf("- %s without a quality score: run 'skillman check'", counted(n, "skill")))
	}
	if n := len(v.Duplicates); n > 0 {
		lines = append(lines, fmt.Sprintf("- %s ignored: run 'skillman scan' for details", counted(n, "duplicate skill name")))
	}

	if len(lines) == 0 {
		b.WriteString("    All good. No actions required.\n")
		return
	}
	for _, line := range lines {
		b.WriteString("    " + line + "\n")
	}
}

func writeActivity(b *strings.Builder, v View) {
	b.WriteString("\n  Recent activity\n")
	events := v.Activity
	if len(events) > recentActivity {
		events = events[len(events)-recentActivity:]
	}
	if len(events) == 0 {
		b.WriteString("    No recent activity\n")
		return
	}
	for _, ev := range events {
		ts := ev.Time().In(v.Now.Location()).Format("2006-01-02 15:04")
		fmt.Fprintf(b, "    - %s  %s: %s\n", ts, ev.Operation, ev.Message)
	}
}

// Menu is the quick-action block shown in interactive mode.
func Menu() string {
	return `
  Quick actions

   [1] Check all for updates     [2] Run quality checks
   [3] Update outdated skills    [4] Init metadata for all
   [5] Generate report           [6] Show skill details
   [7] Rescan for skills         [8] Add search path
   [0] Exit
`
}

func levelColor(level status.Level) *color.Color {
	switch level {
	case status.Fresh:
		return color.New(color.FgGreen)
	case status.Aging:
		return color.New(color.FgYellow)
	case status.Stale:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

func counted(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
