package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupFeed(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	client := setupFeed(t)
	ctx := context.Background()

	sub, err := Subscribe(ctx, client, zap.NewNop())
	require.NoError(t, err)
	defer sub.Close()

	publisher := NewPublisher(client)

	row := map[string]interface{}{"device_id": "farm_001", "metric": "soil", "value": 2600.0}
	require.NoError(t, publisher.PublishInsert(ctx, TableReadings, row))
	require.NoError(t, publisher.PublishUpdate(ctx, TableCommands, map[string]interface{}{"id": "cmd_12345678", "status": "ack"}))

	first := receiveEvent(t, sub)
	assert.Equal(t, TableReadings, first.Table)
	assert.Equal(t, KindInsert, first.Kind)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Row, &decoded))
	assert.Equal(t, "soil", decoded["metric"])

	second := receiveEvent(t, sub)
	assert.Equal(t, TableCommands, second.Table)
	assert.Equal(t, KindUpdate, second.Kind)
}

func TestEventsArriveInPublishOrder(t *testing.T) {
	client := setupFeed(t)
	ctx := context.Background()

	sub, err := Subscribe(ctx, client, zap.NewNop())
	require.NoError(t, err)
	defer sub.Close()

	publisher := NewPublisher(client)
	values := []float64{3000, 26, 1800}
	for _, value := range values {
		require.NoError(t, publisher.PublishInsert(ctx, TableReadings, map[string]interface{}{"value": value}))
	}

	for _, expected := range values {
		event := receiveEvent(t, sub)
		var row map[string]float64
		require.NoError(t, json.Unmarshal(event.Row, &row))
		assert.Equal(t, expected, row["value"])
	}
}

func TestMalformedPayloadsAreSkipped(t *testing.T) {
	client := setupFeed(t)
	ctx := context.Background()

	sub, err := Subscribe(ctx, client, zap.NewNop())
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, client.Publish(ctx, Channel, "not json").Err())
	require.NoError(t, NewPublisher(client).PublishInsert(ctx, TableReadings, map[string]interface{}{"metric": "soil"}))

	event := receiveEvent(t, sub)
	assert.Equal(t, TableReadings, event.Table)
}

func TestCloseUnsubscribesAndClosesEvents(t *testing.T) {
	client := setupFeed(t)
	ctx := context.Background()

	sub, err := Subscribe(ctx, client, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "events channel should be closed after Close")
	case <-time.After(time.Second):
		t.Fatal("events channel was not closed after Close")
	}

	// publishing after Close still succeeds, the events just go nowhere
	require.NoError(t, NewPublisher(client).PublishInsert(ctx, TableReadings, map[string]interface{}{"metric": "soil"}))
}

func receiveEvent(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "events channel closed unexpectedly")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return Event{}
	}
}
