// Package feed broadcasts question events to live subscribers.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/model"
)

// EventType names a feed event.
type EventType string

const EventQuestionAdded EventType = "question_added"

// subscriberBuffer is how many events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 32

// Event is one entry in the question feed.
type Event struct {
	ID       string         `json:"id"`
	Type     EventType      `json:"type"`
	Origin   string         `json:"origin"`
	At       time.Time      `json:"at"`
	Question model.Question `json:"question"`
}

// NewQuestionAdded builds the event emitted after a successful insert.
func NewQuestionAdded(origin string, q model.Question) Event {
	return Event{
		ID:       uuid.New().String(),
		Type:     EventQuestionAdded,
		Origin:   origin,
		At:       time.Now().UTC(),
		Question: q,
	}
}

// Publisher accepts events for delivery.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscription is a registered listener on the Hub.
type Subscription struct {
	id     uint64
	events chan Event
}

// Events returns the channel the subscriber reads from. It is closed when
// the subscription is cancelled.
func (s *Subscription) Events() <-chan Event { return s.events }

// Hub fans events out to in-process subscribers.
type Hub struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]*Subscription
	log     zerolog.Logger
	dropped uint64
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[uint64]*Subscription),
		log:  logger.Component(log, "feed_hub"),
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{id: h.nextID, events: make(chan Event, subscriberBuffer)}
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.events)
}

// Publish delivers ev to every subscriber without blocking. A subscriber
// whose buffer is full misses the event.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.events <- ev:
		default:
			h.dropped++
			h.log.Warn().
				Uint64("subscriber", sub.id).
				Str("event_id", ev.ID).
				Msg("Subscriber lagging, event dropped")
		}
	}
	return nil
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped for lagging subscribers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
