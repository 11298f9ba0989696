package pipeline

import (
	"context"
	"iter"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

type Trackers interface {
	JobByID(ctx context.Context, id string) (*domain.IngestionJob, error)
	UpdateJob(ctx context.Context, id string, update domain.JobUpdate) error
	OwnerJobsProvider
}

type OwnerJobsProvider interface {
	JobsByOwner(ctx context.Context, owner string) ([]*domain.IngestionJob, error)
}

type JobRegistry interface {
	CreateJob(ctx context.Context, job *domain.IngestionJob) error
	QueuedJobByFingerprint(ctx context.Context, owner, fingerprint string) (*domain.IngestionJob, error)
}

type RecordSaver interface {
	SaveRecord(ctx context.Context, record *domain.Record) error
}

type RowSource interface {
	Rows(ctx context.Context, path string) iter.Seq2[*domain.Row, error]
	Count(ctx context.Context, path string) (int, error)
}

type Broadcaster interface {
	Publish(ctx context.Context, routingKey string, event domain.Event)
}

type Notifier interface {
	Notify(ctx context.Context, owner string, summary *domain.Summary, jobID string) error
}

type JobQueue interface {
	Enqueue(ctx context.Context, envelope *domain.JobEnvelope, dedupeKey string) (accepted bool, err error)
}

type JobConsumer interface {
	// Dequeue returns nil when the queue is empty.
	Dequeue(ctx context.Context) (*domain.Delivery, error)
	Ack(ctx context.Context, delivery *domain.Delivery) error
	Heartbeat(ctx context.Context) error
	// Reclaim requeues deliveries held by consumers that stopped heartbeating.
	Reclaim(ctx context.Context) (int, error)
	// Recover requeues deliveries this consumer held before a restart.
	Recover(ctx context.Context) (int, error)
}

type JobHandler interface {
	Handle(ctx context.Context, envelope *domain.JobEnvelope) error
}
