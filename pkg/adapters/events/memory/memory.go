package memory

import (
	"context"
	"sync"

	"github.com/aescanero/wdcsim/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InMemoryEventBus implements EventBus using in-process handlers
type InMemoryEventBus struct {
	subscribers map[string]map[string]ports.MessageHandler
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string]map[string]ports.MessageHandler),
		logger:      logger,
	}
}

// Publish delivers a message to all subscribers of a topic. Handlers run
// synchronously in subscription-independent order.
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, msg ports.Message) error {
	e.mu.RLock()
	handlers := make([]ports.MessageHandler, 0, len(e.subscribers[topic]))
	for _, h := range e.subscribers[topic] {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			e.logger.Warn("message handler failed",
				zap.String("topic", topic),
				zap.String("message_id", msg.ID),
				zap.Error(err))
		}
	}

	return nil
}

// Subscribe registers a handler until ctx is cancelled
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler ports.MessageHandler) error {
	id := uuid.New().String()

	e.mu.Lock()
	if e.subscribers[topic] == nil {
		e.subscribers[topic] = make(map[string]ports.MessageHandler)
	}
	e.subscribers[topic][id] = handler
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.unsubscribe(topic, id)
	}()

	return nil
}

// SubscriberCount returns the number of live subscriptions on a topic
func (e *InMemoryEventBus) SubscriberCount(topic string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subscribers[topic])
}

// Close drops all subscriptions
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string]map[string]ports.MessageHandler)
	return nil
}

func (e *InMemoryEventBus) unsubscribe(topic, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.subscribers[topic], id)
	if len(e.subscribers[topic]) == 0 {
		delete(e.subscribers, topic)
	}
}
