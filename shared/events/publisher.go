package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client *redis.Client
	now    func() time.Time
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

// Publish appends an event to stream. The event JSON is stored under the
// "event" field of the stream entry.
func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	eventJSON, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event": eventJSON,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	return nil
}
