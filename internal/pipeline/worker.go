package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker polls the job queue and hands every delivery to the handler.
type Worker struct {
	log               *slog.Logger
	consumer          JobConsumer
	handler           JobHandler
	pollInterval      time.Duration
	reclaimInterval   time.Duration
	heartbeatInterval time.Duration
	concurrency       int
}

// HeartbeatInterval keeps several refreshes inside one heartbeat TTL so a
// live consumer is never taken for dead by another worker's Reclaim.
func HeartbeatInterval(ttl time.Duration) time.Duration {
	return max(ttl/3, time.Millisecond)
}

func NewWorker(
	log *slog.Logger,
	consumer JobConsumer,
	handler JobHandler,
	pollInterval time.Duration,
	reclaimInterval time.Duration,
	heartbeatInterval time.Duration,
	concurrency int,
) *Worker {
	return &Worker{
		log:               log,
		consumer:          consumer,
		handler:           handler,
		pollInterval:      pollInterval,
		reclaimInterval:   reclaimInterval,
		heartbeatInterval: heartbeatInterval,
		concurrency:       max(concurrency, 1),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	recovered, err := w.consumer.Recover(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover unacknowledged jobs: %w", err)
	}
	if recovered > 0 {
		w.log.WarnContext(ctx, "requeued jobs left unacknowledged by a previous run", slog.Int("count", recovered))
	}

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		return w.maintain(ctx)
	})

	for slot := range w.concurrency {
		erg.Go(func() error {
			w.log.DebugContext(ctx, "worker slot started", slog.Int("slot", slot))
			return w.poll(ctx)
		})
	}

	return erg.Wait()
}

func (w *Worker) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		for {
			handled, err := w.processNext(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.log.ErrorContext(ctx, "failed to process delivery", slog.String("err", err.Error()))
			}
			if !handled {
				break
			}
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processNext handles at most one delivery and reports whether there was one.
func (w *Worker) processNext(ctx context.Context) (bool, error) {
	delivery, err := w.consumer.Dequeue(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to dequeue: %w", err)
	}
	if delivery == nil {
		return false, nil
	}

	log := w.log.With(slog.String("job_id", delivery.Envelope.JobID))
	log.InfoContext(ctx, "picked up job")

	if err := w.handler.Handle(ctx, delivery.Envelope); err != nil {
		log.ErrorContext(ctx, "job handling failed", slog.String("err", err.Error()))
	}

	// The tracker now holds the outcome, so the delivery is done either way.
	if err := w.consumer.Ack(context.WithoutCancel(ctx), delivery); err != nil {
		return true, fmt.Errorf("failed to ack job %s: %w", delivery.Envelope.JobID, err)
	}

	return true, nil
}

// maintain refreshes the heartbeat and reclaims dead consumers on separate
// tickers; the heartbeat cadence must not depend on reclaim-interval.
func (w *Worker) maintain(ctx context.Context) error {
	heartbeat := time.NewTicker(w.heartbeatInterval)
	defer heartbeat.Stop()

	reclaim := time.NewTicker(w.reclaimInterval)
	defer reclaim.Stop()

	for {
		select {
		case <-heartbeat.C:
			if err := w.consumer.Heartbeat(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.log.ErrorContext(ctx, "failed to send heartbeat", slog.String("err", err.Error()))
			}

		case <-reclaim.C:
			reclaimed, err := w.consumer.Reclaim(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				w.log.ErrorContext(ctx, "failed to reclaim jobs", slog.String("err", err.Error()))
				continue
			}
			if reclaimed > 0 {
				w.log.WarnContext(ctx, "reclaimed jobs from dead consumers", slog.Int("count", reclaimed))
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
