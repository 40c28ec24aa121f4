// package services defines interface BatchFetcher for retrieving video
// metadata from the remote provider (YouTube Data API v3).
package services

import (
	"context"
)

// MaxBatchSize is the YouTube Data API's per-call item limit for videos.list.
const MaxBatchSize = 50

// BatchFetcher retrieves metadata for up to [MaxBatchSize] video ids in one
// remote call.
//
// found holds the items the provider returned, in provider order; notFound is
// the subset of requested ids absent from the response, meaning the videos no
// longer exist remotely. Rate-limit failures surface wrapped in
// shared.ErrQuotaExceeded so callers can distinguish exhaustion from plain
// request errors.
type BatchFetcher interface {
	FetchVideos(ctx context.Context, ids []string) (found []RemoteVideo, notFound []string, err error)

	// Name returns the provider name for logging.
	Name() string
}

// RemoteVideo is one item of a videos.list response, flattened to the fields
// the archive can absorb.
type RemoteVideo struct {
	VideoID      string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	Duration     int64 // seconds
	ViewCount    int64
	Tags         []string
	CategoryID   int64 // 0 when the provider omitted it
	TopicURLs    []string
}
