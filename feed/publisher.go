package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishInsert(ctx context.Context, table string, row interface{}) error {
	return p.publish(ctx, KindInsert, table, row)
}

func (p *Publisher) PublishUpdate(ctx context.Context, table string, row interface{}) error {
	return p.publish(ctx, KindUpdate, table, row)
}

func (p *Publisher) publish(ctx context.Context, kind, table string, row interface{}) error {
	rowJSON, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	payload, err := json.Marshal(Event{
		Table: table,
		Kind:  kind,
		Row:   rowJSON,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	return nil
}
