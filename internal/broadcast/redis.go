package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const DefaultChannel = "bulk_uploader:events"

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event domain.Event)
}

// RedisPublisher forwards events to other processes over Redis pub/sub.
type RedisPublisher struct {
	log     *slog.Logger
	db      redis.UniversalClient
	channel string
}

func NewRedisPublisher(log *slog.Logger, db redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{
		log:     log,
		db:      db,
		channel: channel,
	}
}

// Publish is fire-and-forget; failures are logged and the event is lost.
func (p *RedisPublisher) Publish(ctx context.Context, routingKey string, event domain.Event) {
	msg, err := domain.NewMessage(routingKey, event)
	if err != nil {
		p.log.WarnContext(ctx, "failed to encode event", slog.String("event", string(event.Name)), slog.String("err", err.Error()))
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		p.log.WarnContext(ctx, "failed to encode message", slog.String("err", err.Error()))
		return
	}

	if err := p.db.Publish(p.channel, payload).Err(); err != nil {
		p.log.WarnContext(ctx, "failed to publish event", slog.String("event", string(event.Name)), slog.String("err", err.Error()))
	}
}

// Relay republishes events received on the Redis channel into a local
// publisher, usually a Hub.
type Relay struct {
	log     *slog.Logger
	db      redis.UniversalClient
	channel string
	target  Publisher
}

func NewRelay(log *slog.Logger, db redis.UniversalClient, channel string, target Publisher) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Relay{
		log:     log,
		db:      db,
		channel: channel,
		target:  target,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.db.Subscribe(r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(); err != nil {
		return err
	}

	r.log.InfoContext(ctx, "relaying events", slog.String("channel", r.channel))

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case m, ok := <-messages:
			if !ok {
				return nil
			}
			r.forward(ctx, m.Payload)
		}
	}
}

func (r *Relay) forward(ctx context.Context, payload string) {
	var msg domain.Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.log.WarnContext(ctx, "dropping malformed event", slog.String("err", err.Error()))
		return
	}

	r.target.Publish(ctx, msg.RoutingKey, msg.Event())
}
