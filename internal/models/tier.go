package models

import (
	"fmt"
	"strings"

	"github.com/calegria/ytfill/internal/shared"
)

// Priority is a cumulative eligibility tier for enrichment work. Each tier is
// a strict superset of the one above it:
//
//   - PriorityHigh: placeholder title AND placeholder channel
//   - PriorityMedium: placeholder title, any channel
//   - PriorityLow: medium, plus partially enriched videos (missing duration,
//     missing view count, or empty description)
//   - PriorityAll: low, plus soft-deleted videos
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityAll    Priority = "all"
)

// ParsePriority validates a tier name from user input. Unrecognized values are
// rejected here rather than degrading silently further down.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityAll:
		return PriorityAll, nil
	default:
		return "", fmt.Errorf("%w: %q (expected high, medium, low, or all)", shared.ErrInvalidPriority, s)
	}
}

func (p Priority) String() string {
	return string(p)
}

// TierCounts is a point-in-time snapshot of how many videos fall into each
// priority tier. Tiers are cumulative, so High <= Medium <= Low <= All and
// All = Low + Deleted by construction.
type TierCounts struct {
	High    int `json:"high"`
	Medium  int `json:"medium"`
	Low     int `json:"low"`
	All     int `json:"all"`
	Deleted int `json:"deleted"`
}

// Status is the read-only enrichment progress summary.
type Status struct {
	Tiers      TierCounts `json:"tiers"`
	Total      int        `json:"total_videos"`
	Percentage float64    `json:"enrichment_percentage"` // clamped to [0,100], 0 when the archive is empty
}
