package enrich

import (
	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/repositories"
)

// StatusReporter aggregates priority-tier counts. Every method issues only
// COUNT queries, materializes no rows, and takes no lock, so it is safe to
// call while an enrichment run is in flight.
type StatusReporter struct {
	videos *repositories.VideoRepository
}

// NewStatusReporter creates a StatusReporter over the given Querier.
func NewStatusReporter(q repositories.Querier) *StatusReporter {
	return &StatusReporter{videos: repositories.NewVideoRepository(q)}
}

// TierCounts returns a snapshot of how many videos fall into each tier.
// All = Low + Deleted by construction.
func (s *StatusReporter) TierCounts() (*models.TierCounts, error) {
	high, err := s.videos.CountByTier(models.PriorityHigh, false)
	if err != nil {
		return nil, err
	}
	medium, err := s.videos.CountByTier(models.PriorityMedium, false)
	if err != nil {
		return nil, err
	}
	low, err := s.videos.CountByTier(models.PriorityLow, false)
	if err != nil {
		return nil, err
	}
	deleted, err := s.videos.CountDeleted()
	if err != nil {
		return nil, err
	}

	return &models.TierCounts{
		High:    high,
		Medium:  medium,
		Low:     low,
		All:     low + deleted,
		Deleted: deleted,
	}, nil
}

// Status returns tier counts plus the overall enrichment percentage:
// (total - all) / total * 100, clamped to [0,100], 0 for an empty archive.
func (s *StatusReporter) Status() (*models.Status, error) {
	counts, err := s.TierCounts()
	if err != nil {
		return nil, err
	}

	total, err := s.videos.CountAll()
	if err != nil {
		return nil, err
	}

	var percentage float64
	if total > 0 {
		percentage = float64(total-counts.All) / float64(total) * 100
		if percentage < 0 {
			percentage = 0
		}
		if percentage > 100 {
			percentage = 100
		}
	}

	return &models.Status{
		Tiers:      *counts,
		Total:      total,
		Percentage: percentage,
	}, nil
}
