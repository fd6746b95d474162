package status

import (
	"fmt"
	"math"
	"time"

	"skillman/internal/skill"
)

// Snapshot is the aggregate view the dashboard and reports render.
type Snapshot struct {
	Total           int      `json:"total_count"`
	WithMetadata    int      `json:"with_metadata_count"`
	WithoutMetadata int      `json:"without_metadata_count"`
	AverageQuality  *float64 `json:"average_quality_score,omitempty"`
	NeedingUpdate   int      `json:"needing_update_count"`

	TotalPages      int `json:"total_pages"`
	TotalLinks      int `json:"total_links"`
	TotalCodeBlocks int `json:"total_code_blocks"`

	Excellent int `json:"excellent_count"`
	Good      int `json:"good_count"`
	NeedsWork int `json:"needs_work_count"`
	NoScore   int `json:"no_score_count"`
}

// Aggregate computes the Snapshot for a record set at the given time.
// The average covers exactly the records carrying a score and is stored
// rounded to two decimals; an empty set yields zero counts and an
// absent average. Only Stale records count toward NeedingUpdate.
func Aggregate(records []skill.Record, now time.Time, policy Policy) Snapshot {
	snap := Snapshot{Total: len(records)}

	var sum float64
	var scored int
	for _, rec := range records {
		if rec.HasMetadata {
			snap.WithMetadata++
		} else {
			snap.WithoutMetadata++
		}
		if rec.Meta != nil {
			snap.TotalPages += rec.Meta.Stats.TotalPages
			snap.TotalLinks += rec.Meta.Stats.TotalLinks
			snap.TotalCodeBlocks += rec.Meta.Stats.TotalCodeBlocks
		}
		if score, ok := rec.QualityScore(); ok {
			sum += score
			scored++
			switch {
			case score >= 9:
				snap.Excellent++
			case score >= 7:
				snap.Good++
			default:
				snap.NeedsWork++
			}
		} else {
			snap.NoScore++
		}
		if policy.Classify(rec, now) == Stale {
			snap.NeedingUpdate++
		}
	}

	if scored > 0 {
		avg := math.Round(sum/float64(scored)*100) / 100
		snap.AverageQuality = &avg
	}
	return snap
}

// Scored returns how many records carry a quality score.
func (s Snapshot) Scored() int {
	return s.Total - s.NoScore
}

// AverageQualityLabel renders the average as the dashboard shows it.
func (s Snapshot) AverageQualityLabel() string {
	if s.AverageQuality == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f/10", *s.AverageQuality)
}
