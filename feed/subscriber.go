package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Subscription is a live change-feed stream for one dashboard session.
// Close must be called when the session ends; a leaked subscription keeps
// delivering events to state nobody reads.
type Subscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func Subscribe(ctx context.Context, client *redis.Client, logger *zap.Logger) (*Subscription, error) {
	pubsub := client.Subscribe(ctx, Channel)

	// force the SUBSCRIBE round trip so a dead Redis fails here, not silently
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan Event, 64),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("skipping malformed change event", zap.Error(err))
				continue
			}
			select {
			case sub.events <- event:
			default:
				logger.Warn("dropping change event, slow consumer",
					zap.String("table", event.Table),
					zap.String("kind", event.Kind))
			}
		}
	}()

	return sub, nil
}

// Events delivers change events in the order they were published. The
// channel is closed after Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close unsubscribes from the feed and releases the connection.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
