// YouTube Data API v3 [BatchFetcher] implementation
//
// Talks to the public videos.list endpoint with API-key authentication. All
// calls go through a token-bucket rate limiter so a large run cannot burst
// past the provider's per-second limits regardless of batch pacing.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/calegria/ytfill/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// videoListParts is the part parameter for videos.list: everything the
// archive can absorb in one call.
const videoListParts = "snippet,contentDetails,statistics,topicDetails"

// YouTubeService implements BatchFetcher against the YouTube Data API v3.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a YouTube Data API client. rateLimit is requests
// per second; values <= 0 fall back to 5.
func NewYouTubeService(baseURL, apiKey string, rateLimit float64) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if rateLimit <= 0 {
		rateLimit = 5.0
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

// Name returns the provider name.
func (y *YouTubeService) Name() string {
	return "YouTube Data API"
}

// FetchVideos retrieves metadata for up to MaxBatchSize ids in one videos.list
// call. Ids absent from the response are returned as notFound, which the
// provider uses to signal a deleted or private video.
func (y *YouTubeService) FetchVideos(ctx context.Context, ids []string) ([]RemoteVideo, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, nil, fmt.Errorf("%w: batch of %d exceeds API limit of %d", shared.ErrInvalidInput, len(ids), MaxBatchSize)
	}
	if y.apiKey == "" {
		return nil, nil, shared.ErrMissingAPIKey
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("part", videoListParts)
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))
	params.Set("key", y.apiKey)

	var resp videoListResponse
	if err := y.doRequest(ctx, "/videos?"+params.Encode(), &resp); err != nil {
		return nil, nil, err
	}

	found := make([]RemoteVideo, 0, len(resp.Items))
	returned := make(map[string]bool, len(resp.Items))
	for _, item := range resp.Items {
		found = append(found, item.toRemoteVideo())
		returned[item.ID] = true
	}

	var notFound []string
	for _, id := range ids {
		if !returned[id] {
			notFound = append(notFound, id)
		}
	}

	return found, notFound, nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return y.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// apiError maps an error response body to the error taxonomy. Quota and rate
// limiting reasons become shared.ErrQuotaExceeded so the reconciliation loop
// can stop cleanly with partial progress intact.
func (y *YouTubeService) apiError(resp *http.Response) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)

	for _, e := range errResp.Error.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, errResp.Error.Message)
		}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: HTTP 429", shared.ErrQuotaExceeded)
	}

	if errResp.Error.Message != "" {
		return fmt.Errorf("%w: HTTP %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
	}
	return fmt.Errorf("%w: HTTP %d", shared.ErrAPIRequest, resp.StatusCode)
}

// videoListResponse mirrors the videos.list JSON shape.
type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ChannelID    string   `json:"channelId"`
		ChannelTitle string   `json:"channelTitle"`
		CategoryID   string   `json:"categoryId"`
		Tags         []string `json:"tags"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
	TopicDetails struct {
		TopicCategories []string `json:"topicCategories"`
	} `json:"topicDetails"`
}

func (v videoItem) toRemoteVideo() RemoteVideo {
	remote := RemoteVideo{
		VideoID:      v.ID,
		Title:        v.Snippet.Title,
		Description:  v.Snippet.Description,
		ChannelID:    v.Snippet.ChannelID,
		ChannelTitle: v.Snippet.ChannelTitle,
		Tags:         v.Snippet.Tags,
		TopicURLs:    v.TopicDetails.TopicCategories,
	}

	if v.Snippet.CategoryID != "" {
		if id, err := strconv.ParseInt(v.Snippet.CategoryID, 10, 64); err == nil {
			remote.CategoryID = id
		}
	}
	if v.Statistics.ViewCount != "" {
		if count, err := strconv.ParseInt(v.Statistics.ViewCount, 10, 64); err == nil {
			remote.ViewCount = count
		}
	}
	remote.Duration = ParseISODuration(v.ContentDetails.Duration)

	return remote
}

var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts the API's ISO-8601 duration (e.g. "PT1H2M3S") to
// seconds. Unparseable input returns 0.
func ParseISODuration(s string) int64 {
	matches := isoDurationRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0
	}

	units := []int64{86400, 3600, 60, 1}
	var seconds int64
	for i, unit := range units {
		if matches[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(matches[i+1], 10, 64)
		if err != nil {
			return 0
		}
		seconds += n * unit
	}
	return seconds
}
