package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventBus_FanOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	for _, name := range []string{"a", "b"} {
		name := name
		require.NoError(t, bus.Subscribe(ctx, ports.MessagesTopic, func(ctx context.Context, msg ports.Message) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+msg.Event.String())
			return nil
		}))
	}

	msg := ports.Message{ID: "m1", SessionID: "s1", Event: simconfig.EventInit}
	require.NoError(t, bus.Publish(ctx, ports.MessagesTopic, msg))
	require.NoError(t, bus.Publish(ctx, "other", msg))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a:init", "b:init"}, got)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Subscribe(ctx, "t", func(context.Context, ports.Message) error {
		return errors.New("boom")
	}))
	assert.NoError(t, bus.Publish(ctx, "t", ports.Message{ID: "m1"}))
}

func TestInMemoryEventBus_UnsubscribeOnCancel(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, bus.Subscribe(ctx, "t", func(context.Context, ports.Message) error { return nil }))
	assert.Equal(t, 1, bus.SubscriberCount("t"))

	cancel()
	assert.Eventually(t, func() bool { return bus.SubscriberCount("t") == 0 }, time.Second, 10*time.Millisecond)
}

func TestInMemoryEventBus_Close(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Subscribe(context.Background(), "t", func(context.Context, ports.Message) error { return nil }))

	require.NoError(t, bus.Close())
	assert.Equal(t, 0, bus.SubscriberCount("t"))
}
