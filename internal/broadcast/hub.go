// Package broadcast delivers transient job events to live subscribers.
//
// Delivery is at-most-once: a subscriber whose buffer is full misses the
// event, and nothing is kept for subscribers that are not connected.
package broadcast

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const DefaultSubscriptionBuffer = 64

type Hub struct {
	log    *slog.Logger
	buffer int

	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
}

type Subscription struct {
	id     uint64
	keys   []string
	events chan domain.Event
	hub    *Hub
	once   sync.Once
}

func NewHub(log *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}

	return &Hub{
		log:    log,
		buffer: buffer,
		subs:   make(map[uint64]*Subscription),
	}
}

// Subscribe registers interest in events routed to any of keys or belonging
// to a job whose id is one of keys.
func (h *Hub) Subscribe(keys ...string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:     h.nextID,
		keys:   slices.Clone(keys),
		events: make(chan domain.Event, h.buffer),
		hub:    h,
	}
	h.subs[sub.id] = sub

	return sub
}

// Publish never blocks.
func (h *Hub) Publish(ctx context.Context, routingKey string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.matches(routingKey, event.JobID) {
			continue
		}

		select {
		case sub.events <- event:
		default:
			h.log.DebugContext(ctx, "subscriber too slow, event dropped",
				slog.String("routing_key", routingKey),
				slog.String("event", string(event.Name)),
			)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, sub.id)
	close(sub.events)
}

func (s *Subscription) Events() <-chan domain.Event {
	return s.events
}

// Unsubscribe closes the events channel. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

func (s *Subscription) matches(routingKey, jobID string) bool {
	for _, key := range s.keys {
		if key == routingKey || (jobID != "" && key == jobID) {
			return true
		}
	}
	return false
}
