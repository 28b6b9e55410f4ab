package redis

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBus(t *testing.T) (*redis.Client, *StreamsEventBus) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bus := NewStreamsEventBus(client, 1000, zap.NewNop())
	bus.blockTimeout = 50 * time.Millisecond
	return client, bus
}

func TestStreamsEventBus_Publish(t *testing.T) {
	client, bus := setupBus(t)
	ctx := context.Background()

	msg := ports.Message{
		ID:        "m1",
		SessionID: "s1",
		Event:     simconfig.EventSubmit,
		Payload:   json.RawMessage(`{"x":1}`),
		Timestamp: time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, bus.Publish(ctx, ports.MessagesTopic, msg))

	entries, err := client.XRange(ctx, "wdcsim:events:wdc.messages", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var got ports.Message
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["data"].(string)), &got))
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, simconfig.EventSubmit, got.Event)
	assert.JSONEq(t, `{"x":1}`, string(got.Payload))
}

func TestStreamsEventBus_SubscribeSeesOnlyNewMessages(t *testing.T) {
	_, bus := setupBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Publish(ctx, "t", ports.Message{ID: "old", Event: simconfig.EventLog}))

	var mu sync.Mutex
	var ids []string
	require.NoError(t, bus.Subscribe(ctx, "t", func(_ context.Context, msg ports.Message) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, msg.ID)
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "t", ports.Message{ID: "new", Event: simconfig.EventLog}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) == 1 && ids[0] == "new"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestStreamsEventBus_ProcessMessageSkipsGarbage(t *testing.T) {
	_, bus := setupBus(t)
	called := false
	handler := func(context.Context, ports.Message) error {
		called = true
		return nil
	}

	bus.processMessage(context.Background(), "k", redis.XMessage{ID: "1-0", Values: map[string]interface{}{"data": "{"}}, handler)
	bus.processMessage(context.Background(), "k", redis.XMessage{ID: "2-0", Values: map[string]interface{}{}}, handler)

	assert.False(t, called)
}
