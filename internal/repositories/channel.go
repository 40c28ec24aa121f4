package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/shared"
)

// ChannelRepository implements models.Repository[*models.Channel].
//
// Channels are keyed by their remote YouTube channel id; enrichment creates
// them on demand when a fetched video references a channel the archive has
// not seen yet.
type ChannelRepository struct {
	q Querier
}

// NewChannelRepository creates a ChannelRepository over the given Querier.
func NewChannelRepository(q Querier) *ChannelRepository {
	return &ChannelRepository{q: q}
}

const channelColumns = "id, sequence, channel_id, title, description, created_at, updated_at"

// Create inserts a new channel with generated ID and sequence.
func (r *ChannelRepository) Create(channel *models.Channel) error {
	sequence, err := NextSequence(r.q, "channels")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	channel.SetID(shared.GenerateID())
	channel.SetSequence(sequence)

	if err := channel.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO channels (id, sequence, channel_id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.q.Exec(query,
		channel.ID(),
		channel.Sequence(),
		channel.ChannelID(),
		channel.Title(),
		channel.Description(),
		channel.CreatedAt(),
		channel.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert channel: %w", err)
	}

	return nil
}

// Get retrieves a channel by its surrogate id.
func (r *ChannelRepository) Get(id string) (*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM channels WHERE id = ?", channelColumns)
	return r.scanOne(r.q.QueryRow(query, id))
}

// GetByChannelID retrieves a channel by its remote YouTube id.
func (r *ChannelRepository) GetByChannelID(channelID string) (*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM channels WHERE channel_id = ?", channelColumns)
	return r.scanOne(r.q.QueryRow(query, channelID))
}

// Update modifies an existing channel.
func (r *ChannelRepository) Update(channel *models.Channel) error {
	if err := channel.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	channel.SetUpdatedAt(time.Now())

	query := `
		UPDATE channels
		SET title = ?, description = ?, updated_at = ?
		WHERE channel_id = ?
	`

	result, err := r.q.Exec(query,
		channel.Title(),
		channel.Description(),
		channel.UpdatedAt(),
		channel.ChannelID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channel.ChannelID())
	}

	return nil
}

// List retrieves all channels ordered by remote id. The criteria map is
// accepted for interface compatibility; no filters are supported yet.
func (r *ChannelRepository) List(_ map[string]any) ([]*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM channels ORDER BY channel_id", channelColumns)

	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		var (
			id, channelID, title, description string
			sequence                          int
			createdAt, updatedAt              time.Time
		)
		if err := rows.Scan(&id, &sequence, &channelID, &title, &description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, models.RestoreChannel(id, sequence, channelID, title, description, createdAt, updatedAt))
	}
	return channels, rows.Err()
}

func (r *ChannelRepository) scanOne(row *sql.Row) (*models.Channel, error) {
	var (
		id, channelID, title, description string
		sequence                          int
		createdAt, updatedAt              time.Time
	)

	err := row.Scan(&id, &sequence, &channelID, &title, &description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan channel: %w", err)
	}

	return models.RestoreChannel(id, sequence, channelID, title, description, createdAt, updatedAt), nil
}
