// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"

	"github.com/calegria/ytfill/internal/services"
	"github.com/calegria/ytfill/internal/shared"
)

// MockFetcher is a test double for [services.BatchFetcher]. It answers from
// an in-memory item map and can be configured to fail with a quota error
// after a number of calls.
type MockFetcher struct {
	Items     map[string]services.RemoteVideo // remote catalog keyed by video id
	Calls     int                             // number of FetchVideos invocations
	FailAfter int                             // return a quota error on call N+1 (0 = never)
	Err       error                           // returned on every call when set
	Hook      func(call int)                  // invoked at the start of each call when set
}

func (m *MockFetcher) FetchVideos(_ context.Context, ids []string) ([]services.RemoteVideo, []string, error) {
	m.Calls++
	if m.Hook != nil {
		m.Hook(m.Calls)
	}

	if m.Err != nil {
		return nil, nil, m.Err
	}
	if m.FailAfter > 0 && m.Calls > m.FailAfter {
		return nil, nil, fmt.Errorf("%w: mock quota exhausted", shared.ErrQuotaExceeded)
	}
	if len(ids) > services.MaxBatchSize {
		return nil, nil, fmt.Errorf("%w: batch too large", shared.ErrInvalidInput)
	}

	var found []services.RemoteVideo
	var notFound []string
	for _, id := range ids {
		if item, ok := m.Items[id]; ok {
			found = append(found, item)
		} else {
			notFound = append(notFound, id)
		}
	}
	return found, notFound, nil
}

func (m *MockFetcher) Name() string { return "mock" }

// RemoteVideoFixture builds a fully-populated RemoteVideo for tests.
func RemoteVideoFixture(videoID, title, channelID string) services.RemoteVideo {
	return services.RemoteVideo{
		VideoID:      videoID,
		Title:        title,
		Description:  "description of " + videoID,
		ChannelID:    channelID,
		ChannelTitle: "Channel " + channelID,
		Duration:     212,
		ViewCount:    1000,
		Tags:         []string{"tag1", "tag2"},
		CategoryID:   10,
	}
}
