package models

import (
	"time"
)

// Per-video outcome states recorded in report details.
const (
	OutcomeUpdated     = "updated"
	OutcomeDeleted     = "deleted"
	OutcomeError       = "error"
	OutcomeWouldUpdate = "would-update" // dry-run counterpart of updated
	OutcomeWouldDelete = "would-delete" // dry-run counterpart of deleted
)

// ReportSummary aggregates counts for one enrichment run.
type ReportSummary struct {
	VideosProcessed   int `json:"videos_processed"`
	VideosUpdated     int `json:"videos_updated"`
	VideosDeleted     int `json:"videos_deleted"`
	ChannelsCreated   int `json:"channels_created"`
	Errors            int `json:"errors"`
	QuotaUsed         int `json:"quota_used"`
	PlaylistsScanned  int `json:"playlists_scanned,omitempty"`
	PlaylistsRelinked int `json:"playlists_relinked,omitempty"`
}

// ReportDetail records the outcome for a single video.
type ReportDetail struct {
	VideoID  string `json:"video_id"`
	Status   string `json:"status"` // one of the Outcome constants
	OldTitle string `json:"old_title,omitempty"`
	NewTitle string `json:"new_title,omitempty"`
	Error    string `json:"error,omitempty"`
}

// EnrichmentReport is the audit artifact produced by one enrichment run.
// It is appended to during the batch loop and immutable once returned.
type EnrichmentReport struct {
	Timestamp time.Time      `json:"timestamp"`
	Priority  Priority       `json:"priority"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Summary   ReportSummary  `json:"summary"`
	Details   []ReportDetail `json:"details"`
}

// NewEnrichmentReport creates an empty report for the requested tier.
func NewEnrichmentReport(priority Priority, dryRun bool) *EnrichmentReport {
	return &EnrichmentReport{
		Timestamp: time.Now(),
		Priority:  priority,
		DryRun:    dryRun,
		Details:   []ReportDetail{},
	}
}

// RecordUpdated appends an updated (or would-update) detail and bumps the
// summary counters.
func (r *EnrichmentReport) RecordUpdated(videoID, oldTitle, newTitle string, dryRun bool) {
	status := OutcomeUpdated
	if dryRun {
		status = OutcomeWouldUpdate
	}
	r.Details = append(r.Details, ReportDetail{
		VideoID:  videoID,
		Status:   status,
		OldTitle: oldTitle,
		NewTitle: newTitle,
	})
	r.Summary.VideosUpdated++
	r.Summary.VideosProcessed++
}

// RecordDeleted appends a deleted (or would-delete) detail and bumps the
// summary counters.
func (r *EnrichmentReport) RecordDeleted(videoID, oldTitle string, dryRun bool) {
	status := OutcomeDeleted
	if dryRun {
		status = OutcomeWouldDelete
	}
	r.Details = append(r.Details, ReportDetail{
		VideoID:  videoID,
		Status:   status,
		OldTitle: oldTitle,
	})
	r.Summary.VideosDeleted++
	r.Summary.VideosProcessed++
}

// RecordError appends an error detail. The video itself is left unmodified
// and the run continues.
func (r *EnrichmentReport) RecordError(videoID string, err error) {
	r.Details = append(r.Details, ReportDetail{
		VideoID: videoID,
		Status:  OutcomeError,
		Error:   err.Error(),
	})
	r.Summary.Errors++
	r.Summary.VideosProcessed++
}
