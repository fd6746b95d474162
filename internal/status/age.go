package status

import (
	"fmt"
	"time"
)

// AgeDays returns the whole days elapsed since last, truncated toward
// zero. Display-only: classification compares exact durations.
func AgeDays(now, last time.Time) int {
	age := now.Sub(last)
	if age < 0 {
		return 0
	}
	return int(age / (24 * time.Hour))
}

// RelativeAge renders a timestamp the way the dashboard shows ages.
func RelativeAge(now time.Time, last *time.Time) string {
	if last == nil {
		return "never"
	}
	days := AgeDays(now, *last)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return counted(days/7, "week") + " ago"
	default:
		return counted(days/30, "month") + " ago"
	}
}

// QualityTier maps a score to the tier word shown in skill details.
func QualityTier(score float64) string {
	switch {
	case score >= 9:
		return "excellent"
	case score >= 7:
		return "good"
	default:
		return "needs work"
	}
}

func counted(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
