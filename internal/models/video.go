package models

import (
	"database/sql"
	"fmt"
	"time"
)

// UnknownChannelID is the channel reference ingestion assigns when the true
// channel was not known at record-creation time.
const UnknownChannelID = "UNKNOWN"

// PlaceholderTitle returns the title ingestion synthesizes for a video whose
// real title was not known at record-creation time.
func PlaceholderTitle(videoID string) string {
	return fmt.Sprintf("Video %s", videoID)
}

// Video represents an archived YouTube video. Records are created by ingestion
// with placeholder fields and enriched field-by-field by reconciliation runs.
//
// The deleted flag records that the remote API confirmed the video no longer
// exists. Only the reconciliation engine's not-found handling may set it;
// every creation path starts with deleted=false.
type Video struct {
	id          string
	sequence    int
	videoID     string
	title       string
	channelID   string
	description string
	duration    sql.NullInt64 // seconds, invalid = unknown
	viewCount   sql.NullInt64 // invalid = unknown
	tags        []string
	categoryID  sql.NullInt64
	deleted     bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewVideo creates a video record with the given remote id, title and channel
// reference. The deleted flag always starts false.
func NewVideo(videoID, title, channelID string) *Video {
	now := time.Now()
	if channelID == "" {
		channelID = UnknownChannelID
	}
	return &Video{
		videoID:   videoID,
		title:     title,
		channelID: channelID,
		createdAt: now,
		updatedAt: now,
	}
}

// NewPlaceholderVideo creates an ingestion-shaped record: synthesized title,
// unknown channel, everything else empty.
func NewPlaceholderVideo(videoID string) *Video {
	return NewVideo(videoID, PlaceholderTitle(videoID), UnknownChannelID)
}

// RestoreVideo rebuilds a Video from stored column values. Used by the
// repository scan path only.
func RestoreVideo(id string, sequence int, videoID, title, channelID, description string,
	duration, viewCount, categoryID sql.NullInt64, tags []string, deleted bool,
	createdAt, updatedAt time.Time) *Video {
	return &Video{
		id:          id,
		sequence:    sequence,
		videoID:     videoID,
		title:       title,
		channelID:   channelID,
		description: description,
		duration:    duration,
		viewCount:   viewCount,
		categoryID:  categoryID,
		tags:        tags,
		deleted:     deleted,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (v *Video) ID() string                { return v.id }
func (v *Video) Sequence() int             { return v.sequence }
func (v *Video) VideoID() string           { return v.videoID }
func (v *Video) Title() string             { return v.title }
func (v *Video) ChannelID() string         { return v.channelID }
func (v *Video) Description() string       { return v.description }
func (v *Video) Duration() sql.NullInt64   { return v.duration }
func (v *Video) ViewCount() sql.NullInt64  { return v.viewCount }
func (v *Video) CategoryID() sql.NullInt64 { return v.categoryID }
func (v *Video) Tags() []string            { return v.tags }
func (v *Video) Deleted() bool             { return v.deleted }
func (v *Video) CreatedAt() time.Time      { return v.createdAt }
func (v *Video) UpdatedAt() time.Time      { return v.updatedAt }

func (v *Video) SetID(id string)            { v.id = id }
func (v *Video) SetSequence(seq int)        { v.sequence = seq }
func (v *Video) SetTitle(title string)      { v.title = title }
func (v *Video) SetChannelID(chID string)   { v.channelID = chID }
func (v *Video) SetDescription(desc string) { v.description = desc }
func (v *Video) SetDuration(seconds int64)  { v.duration = sql.NullInt64{Int64: seconds, Valid: true} }
func (v *Video) SetViewCount(count int64)   { v.viewCount = sql.NullInt64{Int64: count, Valid: true} }
func (v *Video) SetCategoryID(id int64)     { v.categoryID = sql.NullInt64{Int64: id, Valid: true} }
func (v *Video) SetTags(tags []string)      { v.tags = tags }
func (v *Video) SetUpdatedAt(t time.Time)   { v.updatedAt = t }

// MarkDeleted flips the deleted flag. The reconciliation engine calls this
// after a confirmed remote not-found result; nothing else should.
func (v *Video) MarkDeleted() { v.deleted = true }

// Validate checks required fields before persistence.
func (v *Video) Validate() error {
	if v.videoID == "" {
		return fmt.Errorf("%w: video_id is required", ErrValidation)
	}
	if v.title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if v.channelID == "" {
		return fmt.Errorf("%w: channel_id is required", ErrValidation)
	}
	return nil
}
