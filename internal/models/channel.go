package models

import (
	"fmt"
	"time"
)

// Channel represents a YouTube channel referenced by archived videos.
// Channels are created on demand when enrichment discovers a channel id that
// does not exist locally yet.
type Channel struct {
	id          string
	sequence    int
	channelID   string
	title       string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewChannel creates a channel record with the given remote id and title.
func NewChannel(channelID, title string) *Channel {
	now := time.Now()
	return &Channel{
		channelID: channelID,
		title:     title,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreChannel rebuilds a Channel from stored column values. Used by the
// repository scan path only.
func RestoreChannel(id string, sequence int, channelID, title, description string,
	createdAt, updatedAt time.Time) *Channel {
	return &Channel{
		id:          id,
		sequence:    sequence,
		channelID:   channelID,
		title:       title,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Channel) ID() string           { return c.id }
func (c *Channel) Sequence() int        { return c.sequence }
func (c *Channel) ChannelID() string    { return c.channelID }
func (c *Channel) Title() string        { return c.title }
func (c *Channel) Description() string  { return c.description }
func (c *Channel) CreatedAt() time.Time { return c.createdAt }
func (c *Channel) UpdatedAt() time.Time { return c.updatedAt }

func (c *Channel) SetID(id string)            { c.id = id }
func (c *Channel) SetSequence(seq int)        { c.sequence = seq }
func (c *Channel) SetTitle(title string)      { c.title = title }
func (c *Channel) SetDescription(desc string) { c.description = desc }
func (c *Channel) SetUpdatedAt(t time.Time)   { c.updatedAt = t }

// Validate checks required fields before persistence.
func (c *Channel) Validate() error {
	if c.channelID == "" {
		return fmt.Errorf("%w: channel_id is required", ErrValidation)
	}
	if c.title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}
