package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel carrying canonical session update notifications. Subscribers
// re-read canonical state on every event rather than trusting payloads.
const updateChannel = "session_updated"

// SessionUpdatedEvent names the session whose canonical state changed. An
// empty id means a bulk change (sweep) and subscribers should refresh.
type SessionUpdatedEvent struct {
	SessionID string `json:"sessionId"`
}

// Bus fans session update notifications out across instances via Redis
// pub/sub.
type Bus struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewBus(rdb *redis.Client, log *zap.Logger) *Bus {
	return &Bus{rdb: rdb, log: log}
}

func (b *Bus) Publish(ctx context.Context, sessionID string) error {
	payload, err := json.Marshal(SessionUpdatedEvent{SessionID: sessionID})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, updateChannel, payload).Err()
}

// Subscribe blocks delivering update events to the handler until the context
// is cancelled. Malformed payloads are logged and skipped.
func (b *Bus) Subscribe(ctx context.Context, handler func(SessionUpdatedEvent)) {
	subscriber := b.rdb.Subscribe(ctx, updateChannel)
	defer subscriber.Close()
	ch := subscriber.Channel()

	b.log.Info("subscribed to session update events", zap.String("channel", updateChannel))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event SessionUpdatedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn("failed to parse session update event", zap.Error(err))
				continue
			}
			handler(event)
		}
	}
}
