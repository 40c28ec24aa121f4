package enrich

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/repositories"
	"github.com/calegria/ytfill/internal/services"
	"github.com/calegria/ytfill/internal/shared"
	"github.com/charmbracelet/log"
)

// Options configures a single enrichment run.
type Options struct {
	Priority           models.Priority
	Limit              int  // truncates the candidate set, <= 0 means no limit
	IncludeDeleted     bool // let soft-deleted videos into the selection
	DryRun             bool // report what would change without mutating anything
	CheckPrerequisites bool // verify reference tables before selecting
}

// EngineOpts contains the dependencies and tuning for an Engine.
type EngineOpts struct {
	DB          *sql.DB
	Fetcher     services.BatchFetcher
	Logger      *log.Logger
	Shutdown    *ShutdownCoordinator // optional; nil disables cooperative shutdown
	BatchSize   int                  // ids per remote call, defaults to DefaultBatchSize
	QuotaBudget int                  // max remote calls per run, 0 = unlimited
}

// Engine reconciles the local archive against the remote provider.
//
// Runs are sequential batch-by-batch: one in-flight remote call, one
// transaction per batch committed before the next batch starts. The caller
// holds the enrichment lock for the duration of Enrich; the engine itself
// does not lock.
type Engine struct {
	db          *sql.DB
	fetcher     services.BatchFetcher
	logger      *log.Logger
	shutdown    *ShutdownCoordinator
	batchSize   int
	quotaBudget int
}

// NewEngine creates an Engine with the given dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.BatchSize <= 0 || opts.BatchSize > services.MaxBatchSize {
		opts.BatchSize = DefaultBatchSize
	}

	return &Engine{
		db:          opts.DB,
		fetcher:     opts.Fetcher,
		logger:      opts.Logger,
		shutdown:    opts.Shutdown,
		batchSize:   opts.BatchSize,
		quotaBudget: opts.QuotaBudget,
	}
}

// Enrich runs one reconciliation pass and returns its report.
//
// Error cases, all distinguishable with errors.Is:
//   - *shared.PrerequisiteError: nothing started, caller may seed and retry
//   - *shared.RunInterruptedError wrapping shared.ErrQuotaExceeded or
//     shared.ErrShutdown: the returned report covers every committed batch
//   - anything else: the current batch was rolled back, prior batches persist
func (e *Engine) Enrich(ctx context.Context, opts Options) (*models.EnrichmentReport, error) {
	if opts.CheckPrerequisites {
		if err := NewPrerequisiteChecker(e.db).Check(); err != nil {
			return nil, err
		}
	}

	videoRepo := repositories.NewVideoRepository(e.db)
	candidates, err := videoRepo.ListByTier(opts.Priority, opts.Limit, opts.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	report := models.NewEnrichmentReport(opts.Priority, opts.DryRun)

	estimated := EstimateQuotaCost(len(candidates), e.batchSize)
	e.logger.Info("starting enrichment run",
		"priority", opts.Priority, "candidates", len(candidates),
		"estimated_quota", estimated, "dry_run", opts.DryRun)

	if len(candidates) == 0 {
		return report, nil
	}

	for start := 0; start < len(candidates); start += e.batchSize {
		if e.quotaBudget > 0 && report.Summary.QuotaUsed >= e.quotaBudget {
			e.logger.Warn("quota budget reached, stopping run",
				"budget", e.quotaBudget, "processed", report.Summary.VideosProcessed)
			return report, &shared.RunInterruptedError{
				Reason:    shared.ErrQuotaExceeded,
				Processed: report.Summary.VideosProcessed,
			}
		}

		end := start + e.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		if err := e.processBatch(ctx, batch, report, opts.DryRun); err != nil {
			if errors.Is(err, shared.ErrQuotaExceeded) {
				e.logger.Warn("remote quota exhausted, stopping run",
					"quota_used", report.Summary.QuotaUsed, "processed", report.Summary.VideosProcessed)
				return report, &shared.RunInterruptedError{
					Reason:    shared.ErrQuotaExceeded,
					Processed: report.Summary.VideosProcessed,
				}
			}
			return report, err
		}

		// The batch is committed; a shutdown observed here loses nothing.
		if e.shutdownRequested(ctx) {
			return report, &shared.RunInterruptedError{
				Reason:    shared.ErrShutdown,
				Processed: report.Summary.VideosProcessed,
			}
		}
	}

	e.logger.Info("enrichment run complete",
		"processed", report.Summary.VideosProcessed,
		"updated", report.Summary.VideosUpdated,
		"deleted", report.Summary.VideosDeleted,
		"channels_created", report.Summary.ChannelsCreated,
		"errors", report.Summary.Errors,
		"quota_used", report.Summary.QuotaUsed)

	return report, nil
}

// processBatch performs one remote call and applies its results in one
// transaction. Dry runs skip the transaction entirely; the remote read still
// happens and still costs quota.
func (e *Engine) processBatch(ctx context.Context, batch []*models.Video, report *models.EnrichmentReport, dryRun bool) error {
	ids := make([]string, len(batch))
	byID := make(map[string]*models.Video, len(batch))
	for i, video := range batch {
		ids[i] = video.VideoID()
		byID[video.VideoID()] = video
	}

	found, notFound, err := e.fetcher.FetchVideos(ctx, ids)
	if err != nil {
		return err
	}
	report.Summary.QuotaUsed++

	var q repositories.Querier = e.db
	var tx *sql.Tx
	if !dryRun {
		tx, err = e.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin batch transaction: %w", err)
		}
		defer tx.Rollback()
		q = tx
	}

	videoRepo := repositories.NewVideoRepository(q)
	channelRepo := repositories.NewChannelRepository(q)
	refRepo := repositories.NewReferenceRepository(q)

	for _, videoID := range notFound {
		video := byID[videoID]
		if video == nil {
			continue
		}
		if !dryRun {
			if err := videoRepo.MarkDeleted(videoID); err != nil {
				return err
			}
		}
		report.RecordDeleted(videoID, video.Title(), dryRun)
		e.logger.Debug("video gone remotely", "video_id", videoID)
	}

	for _, item := range found {
		video := byID[item.VideoID]
		if video == nil {
			continue
		}
		if err := e.applyItem(videoRepo, channelRepo, refRepo, video, item, report, dryRun); err != nil {
			return err
		}
	}

	if !dryRun {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
	}

	e.logger.Debug("batch committed",
		"size", len(batch), "found", len(found), "not_found", len(notFound))
	return nil
}

// applyItem reconciles one fetched item into the archive. Malformed items are
// recorded as per-video errors and do not abort the batch; database failures
// do.
func (e *Engine) applyItem(
	videoRepo *repositories.VideoRepository,
	channelRepo *repositories.ChannelRepository,
	refRepo *repositories.ReferenceRepository,
	video *models.Video,
	item services.RemoteVideo,
	report *models.EnrichmentReport,
	dryRun bool,
) error {
	if item.Title == "" {
		report.RecordError(item.VideoID, fmt.Errorf("%w: remote item has no title", shared.ErrInvalidInput))
		return nil
	}
	if item.ChannelID == "" {
		report.RecordError(item.VideoID, fmt.Errorf("%w: remote item has no channel id", shared.ErrInvalidInput))
		return nil
	}

	_, err := channelRepo.GetByChannelID(item.ChannelID)
	if errors.Is(err, shared.ErrChannelNotFound) {
		if !dryRun {
			title := item.ChannelTitle
			if title == "" {
				title = fmt.Sprintf("Channel %s", item.ChannelID)
			}
			if err := channelRepo.Create(models.NewChannel(item.ChannelID, title)); err != nil {
				return err
			}
		}
		report.Summary.ChannelsCreated++
	} else if err != nil {
		return err
	}

	oldTitle := video.Title()

	if !dryRun {
		video.SetTitle(item.Title)
		video.SetChannelID(item.ChannelID)
		video.SetDescription(item.Description)
		video.SetDuration(item.Duration)
		video.SetViewCount(item.ViewCount)
		video.SetTags(item.Tags)
		if item.CategoryID > 0 {
			video.SetCategoryID(item.CategoryID)
		}

		if err := videoRepo.Update(video); err != nil {
			return err
		}

		if len(item.TopicURLs) > 0 {
			topicIDs, err := refRepo.TopicIDsByURLs(item.TopicURLs)
			if err != nil {
				return err
			}
			if err := videoRepo.ReplaceTopics(item.VideoID, topicIDs); err != nil {
				return err
			}
		}
	}

	report.RecordUpdated(item.VideoID, oldTitle, item.Title, dryRun)
	return nil
}

// shutdownRequested merges the coordinator flag with plain context
// cancellation so both stop the run at the same boundary.
func (e *Engine) shutdownRequested(ctx context.Context) bool {
	if e.shutdown != nil && e.shutdown.Requested() {
		return true
	}
	return ctx.Err() != nil
}
