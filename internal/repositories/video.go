package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/shared"
)

// Tier predicates over the videos table. Each tier is an OR-extension of the
// previous one, which makes the cumulative invariant
// high <= medium <= low <= all hold by construction.
//
// The title pattern mirrors models.PlaceholderTitle and the channel marker
// mirrors models.UnknownChannelID.
const (
	placeholderTitleSQL   = "title = 'Video ' || video_id"
	placeholderChannelSQL = "(channel_id = '' OR channel_id = 'UNKNOWN')"
	partiallyEnrichedSQL  = "(duration IS NULL OR view_count IS NULL OR description = '')"
)

// tierPredicate builds the WHERE fragment for a priority tier. Soft-deleted
// rows are excluded from every tier unless includeDeleted is set; the all
// tier additionally pulls them in as its own extension.
func tierPredicate(p models.Priority, includeDeleted bool) string {
	var pred string
	switch p {
	case models.PriorityHigh:
		pred = "(" + placeholderTitleSQL + " AND " + placeholderChannelSQL + ")"
	case models.PriorityMedium:
		pred = "(" + placeholderTitleSQL + ")"
	case models.PriorityLow:
		pred = "(" + placeholderTitleSQL + " OR " + partiallyEnrichedSQL + ")"
	case models.PriorityAll:
		pred = "(" + placeholderTitleSQL + " OR " + partiallyEnrichedSQL + " OR deleted = 1)"
	default:
		// ParsePriority rejects unknown tiers at the boundary; treat a stray
		// value as the strictest tier rather than selecting everything.
		pred = "(" + placeholderTitleSQL + " AND " + placeholderChannelSQL + ")"
	}

	if !includeDeleted {
		pred += " AND deleted = 0"
	}
	return pred
}

// VideoRepository implements models.Repository[*models.Video] plus the
// tier-selection queries the reconciliation engine and status reporter use.
type VideoRepository struct {
	q Querier
}

// NewVideoRepository creates a VideoRepository over the given Querier.
// Pass a *sql.Tx to bind the repository to a batch transaction.
func NewVideoRepository(q Querier) *VideoRepository {
	return &VideoRepository{q: q}
}

const videoColumns = "id, sequence, video_id, title, channel_id, description, duration, view_count, tags, category_id, deleted, created_at, updated_at"

// Create inserts a new video with generated ID and sequence. The deleted
// column is always written as 0.
func (r *VideoRepository) Create(video *models.Video) error {
	sequence, err := NextSequence(r.q, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	video.SetID(shared.GenerateID())
	video.SetSequence(sequence)

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO videos (id, sequence, video_id, title, channel_id, description, duration, view_count, tags, category_id, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	_, err = r.q.Exec(query,
		video.ID(),
		video.Sequence(),
		video.VideoID(),
		video.Title(),
		video.ChannelID(),
		video.Description(),
		video.Duration(),
		video.ViewCount(),
		strings.Join(video.Tags(), ","),
		video.CategoryID(),
		video.CreatedAt(),
		video.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// Get retrieves a video by its surrogate id.
func (r *VideoRepository) Get(id string) (*models.Video, error) {
	query := fmt.Sprintf("SELECT %s FROM videos WHERE id = ?", videoColumns)
	return r.scanOne(r.q.QueryRow(query, id))
}

// GetByVideoID retrieves a video by its remote YouTube id.
func (r *VideoRepository) GetByVideoID(videoID string) (*models.Video, error) {
	query := fmt.Sprintf("SELECT %s FROM videos WHERE video_id = ?", videoColumns)
	return r.scanOne(r.q.QueryRow(query, videoID))
}

// Update persists the enrichable fields of an existing video. The deleted
// column is deliberately not part of this statement; see MarkDeleted.
func (r *VideoRepository) Update(video *models.Video) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	video.SetUpdatedAt(time.Now())

	query := `
		UPDATE videos
		SET title = ?, channel_id = ?, description = ?, duration = ?, view_count = ?, tags = ?, category_id = ?, updated_at = ?
		WHERE video_id = ?
	`

	result, err := r.q.Exec(query,
		video.Title(),
		video.ChannelID(),
		video.Description(),
		video.Duration(),
		video.ViewCount(),
		strings.Join(video.Tags(), ","),
		video.CategoryID(),
		video.UpdatedAt(),
		video.VideoID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, video.VideoID())
	}

	return nil
}

// MarkDeleted sets the deleted flag on a video. This is the only code path in
// the repository layer that writes deleted=1; it must only be reached from
// the reconciliation engine after a confirmed remote not-found result.
func (r *VideoRepository) MarkDeleted(videoID string) error {
	result, err := r.q.Exec("UPDATE videos SET deleted = 1, updated_at = ? WHERE video_id = ?",
		time.Now(), videoID)
	if err != nil {
		return fmt.Errorf("failed to mark video deleted: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	return nil
}

// List retrieves videos matching the given criteria. Supported keys:
// "channel_id", "deleted".
func (r *VideoRepository) List(criteria map[string]any) ([]*models.Video, error) {
	query := fmt.Sprintf("SELECT %s FROM videos", videoColumns)

	var clauses []string
	var args []any
	for _, key := range []string{"channel_id", "deleted"} {
		if value, ok := criteria[key]; ok {
			clauses = append(clauses, key+" = ?")
			args = append(args, value)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY video_id"

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByTier returns the videos eligible for enrichment at the given tier,
// ordered deterministically by remote video id. A limit <= 0 means no limit;
// the limit truncates the candidate set but never changes eligibility.
func (r *VideoRepository) ListByTier(p models.Priority, limit int, includeDeleted bool) ([]*models.Video, error) {
	query := fmt.Sprintf("SELECT %s FROM videos WHERE %s ORDER BY video_id",
		videoColumns, tierPredicate(p, includeDeleted))

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tier %s: %w", p, err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// CountByTier returns the number of videos eligible at the given tier without
// materializing any rows.
func (r *VideoRepository) CountByTier(p models.Priority, includeDeleted bool) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM videos WHERE %s", tierPredicate(p, includeDeleted))

	var count int
	if err := r.q.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tier %s: %w", p, err)
	}
	return count, nil
}

// CountDeleted returns the number of soft-deleted videos.
func (r *VideoRepository) CountDeleted() (int, error) {
	var count int
	if err := r.q.QueryRow("SELECT COUNT(*) FROM videos WHERE deleted = 1").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deleted videos: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of videos including soft-deleted ones.
func (r *VideoRepository) CountAll() (int, error) {
	var count int
	if err := r.q.QueryRow("SELECT COUNT(*) FROM videos").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// ReplaceTopics rewrites the topic associations for a video.
func (r *VideoRepository) ReplaceTopics(videoID string, topicIDs []int64) error {
	if _, err := r.q.Exec("DELETE FROM video_topics WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("failed to clear topic associations: %w", err)
	}

	for _, topicID := range topicIDs {
		_, err := r.q.Exec("INSERT OR IGNORE INTO video_topics (video_id, topic_id) VALUES (?, ?)", videoID, topicID)
		if err != nil {
			return fmt.Errorf("failed to insert topic association: %w", err)
		}
	}

	return nil
}

// TopicIDs returns the topic associations for a video.
func (r *VideoRepository) TopicIDs(videoID string) ([]int64, error) {
	rows, err := r.q.Query("SELECT topic_id FROM video_topics WHERE video_id = ? ORDER BY topic_id", videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic associations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan topic id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *VideoRepository) scanOne(row *sql.Row) (*models.Video, error) {
	var (
		id, videoID, title, channelID, description, tags string
		sequence                                         int
		duration, viewCount, categoryID                  sql.NullInt64
		deleted                                          bool
		createdAt, updatedAt                             time.Time
	)

	err := row.Scan(&id, &sequence, &videoID, &title, &channelID, &description,
		&duration, &viewCount, &tags, &categoryID, &deleted, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	return models.RestoreVideo(id, sequence, videoID, title, channelID, description,
		duration, viewCount, categoryID, splitTags(tags), deleted, createdAt, updatedAt), nil
}

func (r *VideoRepository) scanAll(rows *sql.Rows) ([]*models.Video, error) {
	var videos []*models.Video
	for rows.Next() {
		var (
			id, videoID, title, channelID, description, tags string
			sequence                                         int
			duration, viewCount, categoryID                  sql.NullInt64
			deleted                                          bool
			createdAt, updatedAt                             time.Time
		)

		err := rows.Scan(&id, &sequence, &videoID, &title, &channelID, &description,
			&duration, &viewCount, &tags, &categoryID, &deleted, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}

		videos = append(videos, models.RestoreVideo(id, sequence, videoID, title, channelID,
			description, duration, viewCount, categoryID, splitTags(tags), deleted, createdAt, updatedAt))
	}
	return videos, rows.Err()
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}
