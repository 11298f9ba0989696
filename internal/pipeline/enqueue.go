package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"github.com/kurochkinivan/bulk_uploader/internal/fingerprint"
)

type Enqueuer struct {
	log   *slog.Logger
	jobs  JobRegistry
	queue JobQueue
}

func NewEnqueuer(log *slog.Logger, jobs JobRegistry, queue JobQueue) *Enqueuer {
	return &Enqueuer{
		log:   log,
		jobs:  jobs,
		queue: queue,
	}
}

// DedupeKey is the queue deduplication key of a job.
func DedupeKey(jobID string) string {
	return "job:" + jobID
}

// EnqueueFile registers a staged upload. Identical bytes uploaded by the same
// owner while a previous job is still queued resolve to that job.
func (e *Enqueuer) EnqueueFile(ctx context.Context, path, owner string) (*domain.IngestionJob, error) {
	fp, err := fingerprint.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint upload: %w", err)
	}

	log := e.log.With(slog.String("owner", owner), slog.String("fingerprint", fp))

	existing, err := e.jobs.QueuedJobByFingerprint(ctx, owner, fp)
	switch {
	case err == nil:
		if _, err := e.enqueue(ctx, existing); err != nil {
			return nil, err
		}

		log.InfoContext(ctx, "duplicate upload, reusing queued job", slog.String("job_id", existing.ID))

		if existing.SourcePath != path {
			if err := os.Remove(path); err != nil {
				log.WarnContext(ctx, "failed to release duplicate upload", slog.String("err", err.Error()))
			}
		}

		return existing, nil

	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to look up queued job: %w", err)
	}

	now := time.Now().UTC()
	job := &domain.IngestionJob{
		ID:          uuid.NewString(),
		Owner:       owner,
		SourcePath:  path,
		Fingerprint: fp,
		Errors:      []domain.RowError{},
		Status:      domain.StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}

	if _, err := e.enqueue(ctx, job); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "job queued", slog.String("job_id", job.ID), slog.String("path", path))

	return job, nil
}

func (e *Enqueuer) enqueue(ctx context.Context, job *domain.IngestionJob) (bool, error) {
	accepted, err := e.queue.Enqueue(ctx, &domain.JobEnvelope{
		SourcePath: job.SourcePath,
		Owner:      job.Owner,
		JobID:      job.ID,
	}, DedupeKey(job.ID))
	if err != nil {
		return false, fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}

	return accepted, nil
}
