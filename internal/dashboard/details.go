package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"skillman/internal/skill"
	"skillman/internal/status"
)

// RenderDetails renders the `show` view for one record.
func RenderDetails(rec skill.Record, now time.Time, policy status.Policy) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "  Skill: %s\n", rec.Name)
	b.WriteString(banner + "\n")

	b.WriteString("\n  General\n")
	detail(&b, "Name:", rec.Name)
	if rec.Title != "" {
		detail(&b, "Title:", rec.Title)
	}
	if rec.Description != "" {
		detail(&b, "Description:", rec.Description)
	}
	detail(&b, "Path:", rec.Path)
	detail(&b, "Version:", rec.DisplayVersion())
	detail(&b, "Created:", createdLabel(rec))
	detail(&b, "Last updated:", updatedLabel(rec, now))
	level := policy.Classify(rec, now)
	detail(&b, "Status:", levelColor(level).Sprint(string(level)))

	b.WriteString("\n  Content\n")
	detail(&b, "Reference pages:", fmt.Sprintf("%d", rec.Doc.ReferencePages))
	detail(&b, "SKILL.md size:", humanize.Bytes(uint64(rec.Doc.SkillMDSize)))
	var links, code int
	if rec.Meta != nil {
		links = rec.Meta.Stats.TotalLinks
		code = rec.Meta.Stats.TotalCodeBlocks
	}
	detail(&b, "Links indexed:", humanize.Comma(int64(links)))
	detail(&b, "Code examples:", humanize.Comma(int64(code)))

	b.WriteString("\n  Quality\n")
	detail(&b, "Score:", scoreLabel(rec))

	b.WriteString("\n" + banner + "\n")
	return b.String()
}

func detail(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "    %-18s%s\n", label, value)
}

func createdLabel(rec skill.Record) string {
	if rec.Meta == nil || rec.Meta.Created == nil {
		return "-"
	}
	return rec.Meta.Created.Format("2006-01-02")
}

func updatedLabel(rec skill.Record, now time.Time) string {
	ts, ok := rec.LastUpdated()
	if !ok {
		return "never"
	}
	return fmt.Sprintf("%s (%s)", ts.Format("2006-01-02"), status.RelativeAge(now, &ts))
}

func scoreLabel(rec skill.Record) string {
	score, ok := rec.QualityScore()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f/10 (%s)", score, status.QualityTier(score))
}
