// Package redisqueue is an at-least-once job queue on Redis lists.
//
// Every consumer moves deliveries from the shared pending list into its own
// processing list and removes them from there on ack. A consumer that stops
// heartbeating loses its processing list to whoever reclaims it next.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const (
	DefaultNamespace    = "bulk_uploader"
	DefaultDedupeTTL    = 24 * time.Hour
	DefaultHeartbeatTTL = 30 * time.Second
)

var ErrMalformedDelivery = errors.New("malformed delivery")

type Options struct {
	Namespace    string
	ConsumerID   string
	DedupeTTL    time.Duration
	HeartbeatTTL time.Duration
}

type Queue struct {
	db           redis.UniversalClient
	namespace    string
	consumerID   string
	dedupeTTL    time.Duration
	heartbeatTTL time.Duration
}

// item is what is stored in the lists. The raw JSON doubles as the receipt.
type item struct {
	Envelope  *domain.JobEnvelope `json:"envelope"`
	DedupeKey string              `json:"dedupeKey"`
}

func New(db redis.UniversalClient, opts Options) *Queue {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.DedupeTTL <= 0 {
		opts.DedupeTTL = DefaultDedupeTTL
	}
	if opts.HeartbeatTTL <= 0 {
		opts.HeartbeatTTL = DefaultHeartbeatTTL
	}

	return &Queue{
		db:           db,
		namespace:    opts.Namespace,
		consumerID:   opts.ConsumerID,
		dedupeTTL:    opts.DedupeTTL,
		heartbeatTTL: opts.HeartbeatTTL,
	}
}

func (q *Queue) pendingKey() string {
	return q.namespace + ":pending"
}

func (q *Queue) processingKey(consumerID string) string {
	return q.namespace + ":processing:" + consumerID
}

func (q *Queue) heartbeatKey(consumerID string) string {
	return q.namespace + ":heartbeat:" + consumerID
}

func (q *Queue) consumersKey() string {
	return q.namespace + ":consumers"
}

func (q *Queue) dedupeKey(key string) string {
	return q.namespace + ":dedupe:" + key
}

// Enqueue pushes the envelope unless dedupeKey is already held by a queued
// delivery, in which case it reports false.
func (q *Queue) Enqueue(ctx context.Context, envelope *domain.JobEnvelope, dedupeKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	payload, err := json.Marshal(item{Envelope: envelope, DedupeKey: dedupeKey})
	if err != nil {
		return false, fmt.Errorf("failed to encode envelope: %w", err)
	}

	if dedupeKey != "" {
		acquired, err := q.db.SetNX(q.dedupeKey(dedupeKey), envelope.JobID, q.dedupeTTL).Result()
		if err != nil {
			return false, fmt.Errorf("failed to set dedupe key: %w", err)
		}
		if !acquired {
			return false, nil
		}
	}

	if err := q.db.LPush(q.pendingKey(), payload).Err(); err != nil {
		if dedupeKey != "" {
			q.db.Del(q.dedupeKey(dedupeKey))
		}
		return false, fmt.Errorf("failed to push envelope: %w", err)
	}

	return true, nil
}

// Dequeue moves the oldest pending delivery to this consumer's processing
// list. It returns nil when nothing is pending.
func (q *Queue) Dequeue(ctx context.Context) (*domain.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processing := q.processingKey(q.consumerID)

	payload, err := q.db.RPopLPush(q.pendingKey(), processing).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop envelope: %w", err)
	}

	var it item
	if err := json.Unmarshal([]byte(payload), &it); err != nil || it.Envelope == nil {
		// Nothing can ever handle it, so it must not be redelivered.
		q.db.LRem(processing, 1, payload)
		return nil, fmt.Errorf("%w: %q", ErrMalformedDelivery, payload)
	}

	return &domain.Delivery{Envelope: it.Envelope, Receipt: payload}, nil
}

func (q *Queue) Ack(_ context.Context, delivery *domain.Delivery) error {
	removed, err := q.db.LRem(q.processingKey(q.consumerID), 1, delivery.Receipt).Result()
	if err != nil {
		return fmt.Errorf("failed to remove delivery: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("delivery of job %s is not held by consumer %s", delivery.Envelope.JobID, q.consumerID)
	}

	var it item
	if err := json.Unmarshal([]byte(delivery.Receipt), &it); err == nil && it.DedupeKey != "" {
		if err := q.db.Del(q.dedupeKey(it.DedupeKey)).Err(); err != nil {
			return fmt.Errorf("failed to release dedupe key: %w", err)
		}
	}

	return nil
}

func (q *Queue) Heartbeat(_ context.Context) error {
	pipe := q.db.TxPipeline()
	pipe.SAdd(q.consumersKey(), q.consumerID)
	pipe.Set(q.heartbeatKey(q.consumerID), time.Now().UTC().Format(time.RFC3339), q.heartbeatTTL)

	if _, err := pipe.Exec(); err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}

	return nil
}

// Reclaim requeues the processing lists of consumers whose heartbeat expired.
func (q *Queue) Reclaim(ctx context.Context) (int, error) {
	consumers, err := q.db.SMembers(q.consumersKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list consumers: %w", err)
	}

	var reclaimed int
	for _, consumer := range consumers {
		if err := ctx.Err(); err != nil {
			return reclaimed, err
		}
		if consumer == q.consumerID {
			continue
		}

		alive, err := q.db.Exists(q.heartbeatKey(consumer)).Result()
		if err != nil {
			return reclaimed, fmt.Errorf("failed to check heartbeat of %s: %w", consumer, err)
		}
		if alive > 0 {
			continue
		}

		n, err := q.requeue(consumer)
		reclaimed += n
		if err != nil {
			return reclaimed, err
		}

		if err := q.db.SRem(q.consumersKey(), consumer).Err(); err != nil {
			return reclaimed, fmt.Errorf("failed to unregister %s: %w", consumer, err)
		}
	}

	return reclaimed, nil
}

// Recover requeues what this consumer held before it restarted and
// registers it as alive.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	recovered, err := q.requeue(q.consumerID)
	if err != nil {
		return recovered, err
	}

	return recovered, q.Heartbeat(ctx)
}

// requeue moves every delivery held by consumerID back onto pending.
func (q *Queue) requeue(consumerID string) (int, error) {
	processing := q.processingKey(consumerID)

	var n int
	for {
		err := q.db.RPopLPush(processing, q.pendingKey()).Err()
		if err == redis.Nil {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("failed to requeue deliveries of %s: %w", consumerID, err)
		}

		n++
	}
}

// Pending returns the number of deliveries waiting for a consumer.
func (q *Queue) Pending(_ context.Context) (int64, error) {
	n, err := q.db.LLen(q.pendingKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending deliveries: %w", err)
	}

	return n, nil
}
