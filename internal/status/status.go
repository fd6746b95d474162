// Package status classifies skill freshness and aggregates the numbers
// the dashboard and reports render. Everything here is a pure function
// of the record set and an explicit clock reading; nothing mutates the
// records.
package status

import (
	"time"

	"skillman/internal/skill"
)

// Level describes how recently a skill was updated.
type Level string

const (
	Fresh  Level = "fresh"
	Aging  Level = "aging"
	Stale  Level = "stale"
	NoData Level = "no data"
)

// Policy holds the freshness thresholds.
type Policy struct {
	FreshWithin time.Duration
	StaleAfter  time.Duration
}

// NewPolicy builds a Policy from whole-day thresholds.
func NewPolicy(freshWithinDays, staleAfterDays int) Policy {
	return Policy{
		FreshWithin: time.Duration(freshWithinDays) * 24 * time.Hour,
		StaleAfter:  time.Duration(staleAfterDays) * 24 * time.Hour,
	}
}

// DefaultPolicy matches the default configuration: fresh under 7 days,
// stale beyond 30.
func DefaultPolicy() Policy {
	return NewPolicy(7, 30)
}

// Classify returns the freshness level of one record at the given time.
// Ages are compared as exact durations: a skill updated exactly 30 days
// ago is still Aging, one second older is Stale. Future timestamps
// clamp to age zero.
func (p Policy) Classify(rec skill.Record, now time.Time) Level {
	last, ok := rec.LastUpdated()
	if !ok {
		return NoData
	}
	age := now.Sub(last)
	if age < 0 {
		age = 0
	}
	switch {
	case age < p.FreshWithin:
		return Fresh
	case age <= p.StaleAfter:
		return Aging
	default:
		return Stale
	}
}
