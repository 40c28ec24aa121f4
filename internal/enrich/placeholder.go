package enrich

import (
	"github.com/calegria/ytfill/internal/models"
)

// IsPlaceholderTitle reports whether a title is the one ingestion synthesizes
// when the real title was unknown ("Video <id>"). Pure; unmatched input is
// simply false.
func IsPlaceholderTitle(title, videoID string) bool {
	if videoID == "" {
		return false
	}
	return title == models.PlaceholderTitle(videoID)
}

// IsPlaceholderChannel reports whether a channel reference is unresolved:
// empty or the fixed unknown marker.
func IsPlaceholderChannel(channelID string) bool {
	return channelID == "" || channelID == models.UnknownChannelID
}
