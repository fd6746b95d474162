// Package report renders the markdown status report written by the
// `report` command. Output is deterministic for a given record set and
// clock reading.
package report

import (
	"fmt"
	"strings"
	"time"

	"skillman/internal/skill"
	"skillman/internal/status"
)

// RenderMarkdown renders the full report. Records must already be in
// display order.
func RenderMarkdown(records []skill.Record, snap status.Snapshot, now time.Time, policy status.Policy) string {
	var b strings.Builder
	b.WriteString("# Skill Status Report\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n\n", now.Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total skills: %d\n", snap.Total)
	fmt.Fprintf(&b, "- With metadata: %d\n", snap.WithMetadata)
	fmt.Fprintf(&b, "- Without metadata: %d\n", snap.WithoutMetadata)
	fmt.Fprintf(&b, "- Average quality score: %s\n", snap.AverageQualityLabel())
	fmt.Fprintf(&b, "- Needing update: %d\n", snap.NeedingUpdate)

	if len(records) == 0 {
		return b.String()
	}

	b.WriteString("\n## Skills\n")
	for _, rec := range records {
		level := policy.Classify(rec, now)
		fmt.Fprintf(&b, "\n### %s\n\n", rec.Name)
		fmt.Fprintf(&b, "- Status: %s\n", level)
		fmt.Fprintf(&b, "- Version: %s\n", rec.DisplayVersion())
		if score, ok := rec.QualityScore(); ok {
			fmt.Fprintf(&b, "- Quality score: %.1f/10\n", score)
		}
		if ts, ok := rec.LastUpdated(); ok {
			fmt.Fprintf(&b, "- Last updated: %s (%s)\n", ts.Format("2006-01-02"), status.RelativeAge(now, &ts))
		} else {
			b.WriteString("- Last updated: never\n")
		}
		if level == status.Stale || level == status.NoData {
			b.WriteString("- Recommendation: needs update\n")
		}
	}
	return b.String()
}
