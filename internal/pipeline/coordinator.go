package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

var (
	ErrTrackerNotFound = errors.New("tracker not found")
	ErrSourceMissing   = errors.New("source file not found")
)

// Coordinator runs one ingestion job end to end. It is the single writer of
// the job's tracker.
type Coordinator struct {
	log         *slog.Logger
	trackers    Trackers
	source      RowSource
	processor   *BatchProcessor
	broadcaster Broadcaster
	notifier    Notifier
}

func NewCoordinator(
	log *slog.Logger,
	trackers Trackers,
	source RowSource,
	processor *BatchProcessor,
	broadcaster Broadcaster,
	notifier Notifier,
) *Coordinator {
	return &Coordinator{
		log:         log,
		trackers:    trackers,
		source:      source,
		processor:   processor,
		broadcaster: broadcaster,
		notifier:    notifier,
	}
}

func (c *Coordinator) Handle(ctx context.Context, envelope *domain.JobEnvelope) error {
	log := c.log.With(
		slog.String("job_id", envelope.JobID),
		slog.String("owner", envelope.Owner),
	)

	job, err := c.trackers.JobByID(ctx, envelope.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.broadcaster.Publish(ctx, envelope.Owner, domain.Event{
				Name:    domain.EventError,
				JobID:   envelope.JobID,
				Payload: fmt.Sprintf("Tracker %s not found", envelope.JobID),
			})
			return fmt.Errorf("%w: %s", ErrTrackerNotFound, envelope.JobID)
		}

		return fmt.Errorf("failed to load tracker: %w", err)
	}

	if job.Status.Terminal() {
		log.InfoContext(ctx, "tracker already finished, skipping delivery", slog.String("status", string(job.Status)))
		c.release(ctx, log, envelope.SourcePath)
		return nil
	}

	if job.Status == domain.StatusProcessing {
		log.WarnContext(ctx, "job redelivered while processing, running it again")
	}

	if err := c.claim(ctx, job); err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}

	log.InfoContext(ctx, "job started", slog.String("path", envelope.SourcePath))

	publish(ctx, c.broadcaster, job, domain.EventFileProcessID, job.ID)
	publish(ctx, c.broadcaster, job, domain.EventLog, fmt.Sprintf("Job start | PID: %s", job.ID))
	c.emitHistory(ctx, job.Owner)

	summary, err := c.ingest(ctx, job, envelope.SourcePath)
	if err != nil {
		return c.fail(ctx, log, job, envelope.SourcePath, err)
	}

	log.InfoContext(ctx, "job completed",
		slog.Int("total", summary.Total),
		slog.Int("success", summary.Success),
		slog.Int("failed", summary.Failed),
	)

	publish(ctx, c.broadcaster, job, domain.EventSummary, domain.SummaryPayload{
		Summary:   *summary,
		ProcessID: job.ID,
	})

	if err := c.notifier.Notify(ctx, job.Owner, summary, job.ID); err != nil {
		log.WarnContext(ctx, "failed to send summary", slog.String("err", err.Error()))
	}

	return nil
}

// claim moves the tracker to processing and resets counters left over from
// an interrupted run.
func (c *Coordinator) claim(ctx context.Context, job *domain.IngestionJob) error {
	status := domain.StatusProcessing
	zero := 0

	return c.updateTracker(ctx, job, domain.JobUpdate{
		Status:    &status,
		Processed: &zero,
		Success:   &zero,
		Failed:    &zero,
		Errors:    []domain.RowError{},
	})
}

func (c *Coordinator) ingest(ctx context.Context, job *domain.IngestionJob, path string) (*domain.Summary, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}

	publish(ctx, c.broadcaster, job, domain.EventLog, "Counting rows...")

	total, err := c.source.Count(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	publish(ctx, c.broadcaster, job, domain.EventLog, fmt.Sprintf("Total rows: %d", total))

	if err := c.updateTracker(ctx, job, domain.JobUpdate{Total: &total}); err != nil {
		return nil, err
	}

	summary, err := c.processor.Process(ctx, path, job, total, func(ctx context.Context, p BatchProgress) error {
		return c.updateTracker(ctx, job, domain.JobUpdate{
			Processed:    &p.Processed,
			Success:      &p.Success,
			Failed:       &p.Failed,
			AppendErrors: p.Errors,
		})
	})
	if err != nil {
		return nil, err
	}

	status := domain.StatusCompleted
	err = c.updateTracker(ctx, job, domain.JobUpdate{
		Status:    &status,
		Total:     &summary.Total,
		Processed: &summary.Total,
		Success:   &summary.Success,
		Failed:    &summary.Failed,
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (c *Coordinator) fail(ctx context.Context, log *slog.Logger, job *domain.IngestionJob, path string, cause error) error {
	// The tracker must not stay in processing because the job's context ended.
	ctx = context.WithoutCancel(ctx)

	defer c.release(ctx, log, path)

	if errors.Is(cause, domain.ErrJobNotRunning) || errors.Is(cause, domain.ErrInvalidTransition) {
		log.WarnContext(ctx, "job stopped externally", slog.String("err", cause.Error()))
		publish(ctx, c.broadcaster, job, domain.EventError, "Job was stopped")
		return nil
	}

	log.ErrorContext(ctx, "job failed", slog.String("err", cause.Error()))
	publish(ctx, c.broadcaster, job, domain.EventError, failureMessage(cause))

	status := domain.StatusFailed
	if err := c.updateTracker(ctx, job, domain.JobUpdate{Status: &status}); err != nil {
		cause = errors.Join(cause, fmt.Errorf("failed to mark job failed: %w", err))
	}

	return fmt.Errorf("job %s failed: %w", job.ID, cause)
}

func (c *Coordinator) release(ctx context.Context, log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WarnContext(ctx, "failed to release source file", slog.String("err", err.Error()))
	}
}

// updateTracker is the only way the coordinator mutates a tracker. Every
// mutation is followed by a history broadcast to the owner.
func (c *Coordinator) updateTracker(ctx context.Context, job *domain.IngestionJob, update domain.JobUpdate) error {
	if err := c.trackers.UpdateJob(ctx, job.ID, update); err != nil {
		return fmt.Errorf("failed to update tracker: %w", err)
	}

	update.Apply(job)
	c.emitHistory(ctx, job.Owner)

	return nil
}

func (c *Coordinator) emitHistory(ctx context.Context, owner string) {
	history, err := History(ctx, c.trackers, owner)
	if err != nil {
		c.log.WarnContext(ctx, "failed to load history", slog.String("owner", owner), slog.String("err", err.Error()))
		return
	}

	c.broadcaster.Publish(ctx, owner, domain.Event{
		Name:    domain.EventHistory,
		Payload: history,
	})
}

func failureMessage(err error) string {
	if errors.Is(err, ErrSourceMissing) {
		return "File not found"
	}

	return "Processing failed: " + err.Error()
}
