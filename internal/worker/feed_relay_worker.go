package worker

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/feed"
	"github.com/stemsi/qna-backend/internal/logger"
)

// FeedRelayWorker consumes the Redis question feed channel and republishes
// every event to the local hub.
type FeedRelayWorker struct {
	rdb     *redis.Client
	hub     *feed.Hub
	channel string
	log     zerolog.Logger
}

// NewFeedRelayWorker creates a new FeedRelayWorker.
func NewFeedRelayWorker(rdb *redis.Client, hub *feed.Hub, channel string, log zerolog.Logger) *FeedRelayWorker {
	return &FeedRelayWorker{
		rdb:     rdb,
		hub:     hub,
		channel: channel,
		log:     logger.Component(log, "feed_relay_worker"),
	}
}

// Start subscribes and relays until ctx is cancelled. Call in a goroutine.
func (w *FeedRelayWorker) Start(ctx context.Context) {
	pubsub := w.rdb.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	w.log.Info().Str("channel", w.channel).Msg("Worker started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				w.log.Warn().Msg("Subscription channel closed")
				return
			}
			w.relay(ctx, msg.Payload)
		}
	}
}

func (w *FeedRelayWorker) relay(ctx context.Context, payload string) {
	ev, err := feed.DecodeEvent(payload)
	if err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.hub.Publish(ctx, ev); err != nil {
		w.log.Error().Err(err).Str("event_id", ev.ID).Msg("Relay failed")
		return
	}

	w.log.Debug().
		Str("event_id", ev.ID).
		Str("origin", ev.Origin).
		Str("question_id", string(ev.Question.ID)).
		Msg("Event relayed")
}
